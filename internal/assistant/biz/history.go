package biz

import (
	"time"

	"github.com/mercora/volt/internal/model"
)

// TrimHistory returns the most recent maxTurns turns, oldest first. The
// input slice is never mutated.
func TrimHistory(history []model.ConversationTurn, maxTurns int) []model.ConversationTurn {
	if maxTurns <= 0 || len(history) <= maxTurns {
		return history
	}
	return history[len(history)-maxTurns:]
}

// AppendTurns extends the caller's history with the question/answer pair
// of the current request and returns the new sequence.
func AppendTurns(history []model.ConversationTurn, question string, answer *model.Answer) []model.ConversationTurn {
	now := time.Now().UTC()
	updated := make([]model.ConversationTurn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		model.ConversationTurn{
			Role:      model.RoleUser,
			Content:   question,
			CreatedAt: now,
		},
		model.ConversationTurn{
			Role:       model.RoleAssistant,
			Content:    answer.Text,
			CreatedAt:  now,
			ProductIDs: answer.ProductIDs,
		},
	)
	return updated
}
