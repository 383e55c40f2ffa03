package common

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/edulane/lessonbot/internal/controller/callbacks/common/keyboard"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
	"github.com/edulane/lessonbot/internal/service"
)

// Callback data for the student picker.
const (
	NLTogglePrefix = "nl_toggle:"
	NLPagePrefix   = "nl_page:"
	NLSubmit       = "nl_submit"
	NLCancel       = "nl_cancel"
	Noop           = "noop"
)

const pickerPageSize = 8

// RenderStudentPicker builds the student selection screen from the chat's
// dialog scratch data. Free text typed during this step narrows the list.
func RenderStudentPicker(m *state.Manager, chatID int64) (string, *models.InlineKeyboardMarkup) {
	directory, _ := pickerDirectory(m, chatID)
	selected := SelectedStudents(m, chatID)
	filter := pickerFilter(m, chatID)
	page := pickerPage(m, chatID)

	filtered := service.FilterParticipants(directory, filter)

	pages := (len(filtered) + pickerPageSize - 1) / pickerPageSize
	if pages == 0 {
		pages = 1
	}
	if page >= pages {
		page = pages - 1
		m.SetData(chatID, state.KeyDraftPage, page)
	}

	text := fmt.Sprintf("Step 5 of 5: pick students (%d selected).\n\n"+
		"Send a message to filter by name or email.", len(selected))
	if filter != "" {
		text += fmt.Sprintf("\nFilter: %q", filter)
	}
	if len(filtered) == 0 {
		text += "\n\nNo students match."
	}

	kb := keyboard.NewBuilder()

	start := page * pickerPageSize
	end := start + pickerPageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	for _, p := range filtered[start:end] {
		mark := "⬜"
		if containsID(selected, p.ID) {
			mark = "✅"
		}
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s %s", mark, p.Name),
			fmt.Sprintf("%s%d", NLTogglePrefix, p.ID),
		))
	}

	if pages > 1 {
		nav := make([]models.InlineKeyboardButton, 0, 3)
		if page > 0 {
			nav = append(nav, keyboard.Button("⬅️", fmt.Sprintf("%s%d", NLPagePrefix, page-1)))
		}
		nav = append(nav, keyboard.Button(fmt.Sprintf("%d/%d", page+1, pages), Noop))
		if page < pages-1 {
			nav = append(nav, keyboard.Button("➡️", fmt.Sprintf("%s%d", NLPagePrefix, page+1)))
		}
		kb.AddRow(nav)
	}

	kb.Row(
		keyboard.Button("✅ Create", NLSubmit),
		keyboard.Button("❌ Cancel", NLCancel),
	)

	return text, kb.Build()
}

// ToggleStudent flips a student id in the current selection.
func ToggleStudent(m *state.Manager, chatID int64, id int64) {
	selected := SelectedStudents(m, chatID)
	for i, s := range selected {
		if s == id {
			m.SetData(chatID, state.KeyDraftStudents, append(selected[:i], selected[i+1:]...))
			return
		}
	}
	m.SetData(chatID, state.KeyDraftStudents, append(selected, id))
}

// SelectedStudents returns the ids picked so far, never nil.
func SelectedStudents(m *state.Manager, chatID int64) []int64 {
	if v, ok := m.GetData(chatID, state.KeyDraftStudents); ok {
		if ids, ok := v.([]int64); ok {
			return ids
		}
	}
	return []int64{}
}

func pickerDirectory(m *state.Manager, chatID int64) ([]model.Participant, bool) {
	if v, ok := m.GetData(chatID, state.KeyDirectory); ok {
		if list, ok := v.([]model.Participant); ok {
			return list, true
		}
	}
	return nil, false
}

func pickerFilter(m *state.Manager, chatID int64) string {
	if v, ok := m.GetData(chatID, state.KeyDraftFilter); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func pickerPage(m *state.Manager, chatID int64) int {
	if v, ok := m.GetData(chatID, state.KeyDraftPage); ok {
		if p, ok := v.(int); ok && p >= 0 {
			return p
		}
	}
	return 0
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
