package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerStateLifecycle(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateLoginEmail)
	assert.Equal(t, StateLoginEmail, m.GetState(1))
	assert.Equal(t, StateNone, m.GetState(2))

	m.Clear(1)
	assert.Equal(t, StateNone, m.GetState(1))
}

func TestManagerDataSurvivesStateNone(t *testing.T) {
	m := NewManager()

	m.SetData(5, KeyViewName, "Dana")
	m.SetState(5, StateLoginEmail)
	m.SetState(5, StateNone)

	v, ok := m.GetData(5, KeyViewName)
	assert.True(t, ok)
	assert.Equal(t, "Dana", v)
}

func TestResetDialogKeepsViewData(t *testing.T) {
	m := NewManager()

	m.SetState(5, StateNewLessonStudents)
	m.SetData(5, KeyDraftDate, "2024-03-05")
	m.SetData(5, KeyDraftStudents, []int64{1, 2})
	m.SetData(5, KeyViewName, "Dana")
	m.SetData(5, KeyViewOrg, int64(3))

	m.ResetDialog(5)

	assert.Equal(t, StateNone, m.GetState(5))
	_, ok := m.GetData(5, KeyDraftDate)
	assert.False(t, ok)
	_, ok = m.GetData(5, KeyDraftStudents)
	assert.False(t, ok)

	name, ok := m.GetData(5, KeyViewName)
	assert.True(t, ok)
	assert.Equal(t, "Dana", name)
	org, ok := m.GetData(5, KeyViewOrg)
	assert.True(t, ok)
	assert.EqualValues(t, 3, org)
}

func TestDeleteData(t *testing.T) {
	m := NewManager()

	m.SetData(9, KeyDraftFilter, "ann")
	m.DeleteData(9, KeyDraftFilter)

	_, ok := m.GetData(9, KeyDraftFilter)
	assert.False(t, ok)
}
