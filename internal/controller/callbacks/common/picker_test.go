package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
)

func pickerManager(n int) *state.Manager {
	m := state.NewManager()
	directory := make([]model.Participant, 0, n)
	for i := 1; i <= n; i++ {
		directory = append(directory, model.Participant{
			ID:    int64(i),
			Name:  fmt.Sprintf("Student %02d", i),
			Email: fmt.Sprintf("s%02d@example.com", i),
		})
	}
	m.SetData(1, state.KeyDirectory, directory)
	m.SetData(1, state.KeyDraftStudents, []int64{})
	return m
}

func TestRenderStudentPickerPagination(t *testing.T) {
	m := pickerManager(11)

	_, kb := RenderStudentPicker(m, 1)

	// 8 student rows, a pager row, the submit/cancel row.
	require.Len(t, kb.InlineKeyboard, 10)
	assert.Equal(t, "nl_toggle:1", kb.InlineKeyboard[0][0].CallbackData)

	pager := kb.InlineKeyboard[8]
	assert.Equal(t, "1/2", pager[0].Text)
	assert.Equal(t, "nl_page:1", pager[1].CallbackData)

	m.SetData(1, state.KeyDraftPage, 1)
	_, kb = RenderStudentPicker(m, 1)
	// 3 remaining students, pager, submit/cancel.
	require.Len(t, kb.InlineKeyboard, 5)
	assert.Equal(t, "nl_toggle:9", kb.InlineKeyboard[0][0].CallbackData)
}

func TestRenderStudentPickerFilter(t *testing.T) {
	m := pickerManager(11)
	m.SetData(1, state.KeyDraftFilter, "s03@")

	text, kb := RenderStudentPicker(m, 1)

	assert.Contains(t, text, `Filter: "s03@"`)
	// One match plus the submit/cancel row, no pager.
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "nl_toggle:3", kb.InlineKeyboard[0][0].CallbackData)
}

func TestRenderStudentPickerClampsStalePage(t *testing.T) {
	m := pickerManager(11)
	m.SetData(1, state.KeyDraftPage, 5)
	m.SetData(1, state.KeyDraftFilter, "Student 0") // 9 matches, 2 pages

	_, kb := RenderStudentPicker(m, 1)
	require.NotEmpty(t, kb.InlineKeyboard)
	assert.Equal(t, "nl_toggle:9", kb.InlineKeyboard[0][0].CallbackData)
}

func TestToggleStudent(t *testing.T) {
	m := pickerManager(3)

	ToggleStudent(m, 1, 2)
	assert.Equal(t, []int64{2}, SelectedStudents(m, 1))

	ToggleStudent(m, 1, 3)
	assert.Equal(t, []int64{2, 3}, SelectedStudents(m, 1))

	ToggleStudent(m, 1, 2)
	assert.Equal(t, []int64{3}, SelectedStudents(m, 1))
}

func TestSelectedStudentsNeverNil(t *testing.T) {
	m := state.NewManager()
	assert.NotNil(t, SelectedStudents(m, 42))
	assert.Empty(t, SelectedStudents(m, 42))
}
