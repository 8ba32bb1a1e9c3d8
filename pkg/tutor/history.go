package tutor

const (
	// DefaultMaxHistoryTurns bounds how many prior turns reach the model.
	DefaultMaxHistoryTurns = 20
	// DefaultHistoryCharBudget bounds the total characters of history.
	DefaultHistoryCharBudget = 8000
)

// selectHistory takes a sliding window from the most recent turns backward,
// bounded by both a turn count and a total character budget. The single
// most recent turn is always kept, truncated to the budget if it alone
// exceeds it: losing the immediately preceding exchange is worse than
// sending a clipped version of it.
func selectHistory(history []Turn, maxTurns, charBudget int) []Turn {
	if len(history) == 0 || maxTurns <= 0 {
		return nil
	}
	if charBudget <= 0 {
		charBudget = DefaultHistoryCharBudget
	}

	var selected []Turn
	total := 0
	for i := len(history) - 1; i >= 0 && len(selected) < maxTurns; i-- {
		turn := history[i]
		size := len([]rune(turn.Content))
		if total+size > charBudget {
			if len(selected) == 0 {
				turn.Content = truncateRunes(turn.Content, charBudget)
				selected = append(selected, turn)
			}
			break
		}
		total += size
		selected = append(selected, turn)
	}

	// Restore chronological order.
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}

func truncateRunes(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
