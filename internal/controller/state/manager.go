// Package state tracks per-chat dialog state: which step of a multi-step
// dialog the chat is on, plus the scratch data collected along the way.
// The calendar view also parks its fetched lessons here so that month
// navigation can recompute the grid without refetching.
package state

import "sync"

// Manager keeps dialog state per chat. Handlers run on the bot's update
// goroutines, so access is guarded.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*ChatData // chat id -> dialog state
}

func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*ChatData),
	}
}

// GetState returns the chat's current dialog step.
func (m *Manager) GetState(chatID int64) ChatState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.states[chatID]; exists {
		return data.State
	}
	return StateNone
}

// SetState moves the chat to a dialog step. StateNone keeps the scratch
// data (the calendar view owns some of it); use Clear to drop everything.
func (m *Manager) SetState(chatID int64, state ChatState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.states[chatID]; !exists {
		m.states[chatID] = &ChatData{
			State: state,
			Data:  make(map[string]interface{}),
		}
		return
	}
	m.states[chatID].State = state
}

// GetData returns a scratch value for the chat.
func (m *Manager) GetData(chatID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.states[chatID]; exists {
		value, ok := data.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData stores a scratch value for the chat.
func (m *Manager) SetData(chatID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.states[chatID]; !exists {
		m.states[chatID] = &ChatData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
	}
	m.states[chatID].Data[key] = value
}

// DeleteData removes a single scratch value.
func (m *Manager) DeleteData(chatID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, exists := m.states[chatID]; exists {
		delete(data.Data, key)
	}
}

// ResetDialog ends the active dialog and drops the values it collected.
// Calendar view data stays, so month navigation keeps working afterwards.
func (m *Manager) ResetDialog(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, exists := m.states[chatID]
	if !exists {
		return
	}
	data.State = StateNone
	for _, k := range dialogKeys {
		delete(data.Data, k)
	}
}

// Clear drops the chat's dialog state and all scratch data.
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, chatID)
}
