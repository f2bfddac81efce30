package conversation

import (
	"fmt"
	"testing"

	"talentscout/internal/types"
)

func TestAddKeepsMostRecent(t *testing.T) {
	const capacity = 4
	m := NewManager("system", capacity)

	for i := 0; i < capacity+5; i++ {
		m.Add(types.RoleUser, fmt.Sprintf("turn %d", i))
	}

	if m.Len() != capacity {
		t.Fatalf("Expected %d turns, got %d", capacity, m.Len())
	}
	history := m.History()
	for i, msg := range history {
		want := fmt.Sprintf("turn %d", i+5)
		if msg.Content != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, msg.Content)
		}
	}
}

func TestMessagesForAPI(t *testing.T) {
	m := NewManager("be helpful", 2)
	m.Add(types.RoleUser, "a")
	m.Add(types.RoleAssistant, "b")
	m.Add(types.RoleUser, "c")

	messages := m.MessagesForAPI()
	if len(messages) != 3 {
		t.Fatalf("Expected system prompt plus 2 turns, got %d", len(messages))
	}
	if messages[0].Role != types.RoleSystem || messages[0].Content != "be helpful" {
		t.Errorf("Expected system prompt first, got %+v", messages[0])
	}
	if messages[1].Content != "b" || messages[2].Content != "c" {
		t.Errorf("Unexpected turns: %+v", messages[1:])
	}

	m.SetSystemPrompt("be brief")
	if got := m.MessagesForAPI()[0].Content; got != "be brief" {
		t.Errorf("Expected updated system prompt, got %s", got)
	}
}

func TestHistoryIsCopy(t *testing.T) {
	m := NewManager("s", 3)
	m.Add(types.RoleUser, "original")

	history := m.History()
	history[0].Content = "changed"

	if m.History()[0].Content != "original" {
		t.Error("Expected History to return a copy")
	}
}

func TestLastN(t *testing.T) {
	m := NewManager("s", 10)
	for _, c := range []string{"a", "b", "c"} {
		m.Add(types.RoleUser, c)
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{2, []string{"b", "c"}},
		{5, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := m.LastN(tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("LastN(%d): expected %d messages, got %d", tt.n, len(tt.want), len(got))
			continue
		}
		for i := range got {
			if got[i].Content != tt.want[i] {
				t.Errorf("LastN(%d)[%d]: expected %s, got %s", tt.n, i, tt.want[i], got[i].Content)
			}
		}
	}
}

func TestClearAndMinimumCapacity(t *testing.T) {
	m := NewManager("s", 0)
	if m.Capacity() != 1 {
		t.Errorf("Expected capacity 1, got %d", m.Capacity())
	}
	m.Add(types.RoleUser, "a")
	m.Add(types.RoleUser, "b")
	if m.Len() != 1 || m.History()[0].Content != "b" {
		t.Errorf("Expected only the latest turn, got %+v", m.History())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Expected empty history after Clear, got %d", m.Len())
	}
	if len(m.MessagesForAPI()) != 1 {
		t.Error("Expected only the system prompt after Clear")
	}
}
