package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/model"
)

func TestTrimHistory(t *testing.T) {
	history := []model.ConversationTurn{
		{Content: "1"}, {Content: "2"}, {Content: "3"}, {Content: "4"},
	}

	trimmed := TrimHistory(history, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "3", trimmed[0].Content)
	assert.Equal(t, "4", trimmed[1].Content)

	assert.Len(t, TrimHistory(history, 10), 4)
	assert.Len(t, TrimHistory(history, 0), 4)
	assert.Empty(t, TrimHistory(nil, 6))
}

func TestAppendTurns(t *testing.T) {
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Content: "hello"},
	}
	answer := &model.Answer{Text: "hi there", ProductIDs: []int64{4}}

	updated := AppendTurns(history, "any sales?", answer)
	require.Len(t, updated, 3)
	assert.Equal(t, model.RoleUser, updated[1].Role)
	assert.Equal(t, "any sales?", updated[1].Content)
	assert.Equal(t, model.RoleAssistant, updated[2].Role)
	assert.Equal(t, "hi there", updated[2].Content)
	assert.Equal(t, []int64{4}, updated[2].ProductIDs)
	assert.False(t, updated[2].CreatedAt.IsZero())

	// input history untouched
	assert.Len(t, history, 1)
}
