// Package conversation keeps the bounded turn history sent as model context.
package conversation

import "talentscout/internal/types"

// Message is one conversation turn
type Message = types.Message

// Manager holds the most recent turns up to a fixed capacity. The system
// prompt is kept separately and does not count against the capacity.
type Manager struct {
	systemPrompt string
	capacity     int
	history      []Message
}

// NewManager creates a manager; a capacity below 1 is treated as 1
func NewManager(systemPrompt string, capacity int) *Manager {
	if capacity < 1 {
		capacity = 1
	}
	return &Manager{
		systemPrompt: systemPrompt,
		capacity:     capacity,
		history:      make([]Message, 0, capacity),
	}
}

// Add appends a turn, dropping the oldest turns beyond capacity
func (m *Manager) Add(role, content string) {
	m.history = append(m.history, Message{Role: role, Content: content})
	if over := len(m.history) - m.capacity; over > 0 {
		m.history = append(m.history[:0:0], m.history[over:]...)
	}
}

// MessagesForAPI returns the system prompt followed by the retained turns
func (m *Manager) MessagesForAPI() []Message {
	messages := make([]Message, 0, len(m.history)+1)
	messages = append(messages, Message{Role: types.RoleSystem, Content: m.systemPrompt})
	return append(messages, m.history...)
}

// History returns a copy of the retained turns, oldest first
func (m *Manager) History() []Message {
	out := make([]Message, len(m.history))
	copy(out, m.history)
	return out
}

// LastN returns up to n of the most recent turns
func (m *Manager) LastN(n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	if n > len(m.history) {
		n = len(m.history)
	}
	out := make([]Message, n)
	copy(out, m.history[len(m.history)-n:])
	return out
}

// Len returns the number of retained turns
func (m *Manager) Len() int {
	return len(m.history)
}

// Capacity returns the maximum number of retained turns
func (m *Manager) Capacity() int {
	return m.capacity
}

// Clear drops every turn
func (m *Manager) Clear() {
	m.history = m.history[:0]
}

// SystemPrompt returns the current system prompt
func (m *Manager) SystemPrompt() string {
	return m.systemPrompt
}

// SetSystemPrompt replaces the system prompt used for later requests
func (m *Manager) SetSystemPrompt(prompt string) {
	m.systemPrompt = prompt
}
