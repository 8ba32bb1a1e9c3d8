package tutor

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSelectHistoryEmpty(t *testing.T) {
	if got := selectHistory(nil, DefaultMaxHistoryTurns, DefaultHistoryCharBudget); got != nil {
		t.Errorf("expected nil history, got %v", got)
	}
}

func TestSelectHistoryTurnCap(t *testing.T) {
	var history []Turn
	for i := 0; i < 30; i++ {
		history = append(history, Turn{Role: RoleUser, Content: fmt.Sprintf("turn %02d", i)})
	}
	got := selectHistory(history, 20, DefaultHistoryCharBudget)
	if len(got) != 20 {
		t.Fatalf("expected 20 turns, got %d", len(got))
	}
	if got[0].Content != "turn 10" || got[19].Content != "turn 29" {
		t.Errorf("expected most recent 20 turns in order, got first=%q last=%q", got[0].Content, got[19].Content)
	}
}

func TestSelectHistoryCharBudget(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: strings.Repeat("a", 60)},
		{Role: RoleAssistant, Content: strings.Repeat("b", 60)},
		{Role: RoleUser, Content: strings.Repeat("c", 60)},
	}
	got := selectHistory(history, 20, 130)
	want := []Turn{history[1], history[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected the two most recent turns, got %v", got)
	}
}

func TestSelectHistoryOversizedRecentTurnTruncated(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "older"},
		{Role: RoleAssistant, Content: strings.Repeat("日", 50)},
	}
	got := selectHistory(history, 20, 10)
	if len(got) != 1 {
		t.Fatalf("expected only the most recent turn, got %d turns", len(got))
	}
	if got[0].Content != strings.Repeat("日", 10) {
		t.Errorf("expected rune-truncated content, got %q", got[0].Content)
	}
	if history[1].Content != strings.Repeat("日", 50) {
		t.Error("input history was mutated")
	}
}
