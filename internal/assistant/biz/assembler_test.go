package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/model"
)

func TestAssembleKeepsOrderWithinBudget(t *testing.T) {
	asm := NewAssembler(&AssemblerConfig{CharBudget: 1000, HistoryTurns: 6})
	matches := []model.CandidateMatch{
		{Score: 0.9, Snippet: "first"},
		{Score: 0.8, Snippet: "second"},
		{Score: 0.7, Snippet: "third"},
	}

	payload := asm.Assemble(matches, nil, "", nil)
	assert.Equal(t, []string{"first", "second", "third"}, payload.Snippets)
}

func TestAssembleDropsLowestScoreFirst(t *testing.T) {
	long := strings.Repeat("x", 60)
	asm := NewAssembler(&AssemblerConfig{CharBudget: 130, HistoryTurns: 6})
	matches := []model.CandidateMatch{
		{Score: 0.9, Snippet: long},
		{Score: 0.5, Snippet: long}, // weakest, evicted first
		{Score: 0.7, Snippet: long},
	}

	payload := asm.Assemble(matches, nil, "", nil)
	// one whole snippet dropped, the rest untouched
	require.Len(t, payload.Snippets, 2)
	for _, s := range payload.Snippets {
		assert.Len(t, s, 60)
	}
}

func TestAssembleNeverTruncatesMidSnippet(t *testing.T) {
	asm := NewAssembler(&AssemblerConfig{CharBudget: 50, HistoryTurns: 6})
	matches := []model.CandidateMatch{
		{Score: 0.9, Snippet: strings.Repeat("a", 40)},
		{Score: 0.8, Snippet: strings.Repeat("b", 40)},
	}

	payload := asm.Assemble(matches, nil, "", nil)
	require.Len(t, payload.Snippets, 1)
	assert.Equal(t, strings.Repeat("a", 40), payload.Snippets[0])
}

func TestAssembleTrimsHistory(t *testing.T) {
	asm := NewAssembler(&AssemblerConfig{CharBudget: 4000, HistoryTurns: 2})
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Content: "one"},
		{Role: model.RoleAssistant, Content: "two"},
		{Role: model.RoleUser, Content: "three"},
		{Role: model.RoleAssistant, Content: "four"},
	}

	payload := asm.Assemble(nil, nil, "", history)
	require.Len(t, payload.History, 2)
	// most recent turns, oldest first
	assert.Equal(t, "three", payload.History[0].Content)
	assert.Equal(t, "four", payload.History[1].Content)
}

func TestAssembleUserSummary(t *testing.T) {
	userCtx := &model.UserContext{
		Orders: []model.OrderSummary{
			{OrderID: 1, TotalAmount: 12000},
			{OrderID: 2, TotalAmount: 15000},
		},
		IsVIPCustomer:       true,
		PreferredPriceRange: &model.PriceRange{Low: 5000, High: 20000},
	}

	asm := NewAssembler(&AssemblerConfig{CharBudget: 4000, HistoryTurns: 6})
	payload := asm.Assemble(nil, userCtx, "Alex Smith", nil)

	assert.Contains(t, payload.UserSummary, "Alex")
	assert.NotContains(t, payload.UserSummary, "Smith")
	assert.Contains(t, payload.UserSummary, "2 previous order")
	assert.Contains(t, payload.UserSummary, "VIP")
	assert.Contains(t, payload.UserSummary, "$50-$200")
	// spend is bucketed, never exact
	assert.NotContains(t, payload.UserSummary, "27000")
	assert.NotContains(t, payload.UserSummary, "270")
}

func TestAssembleEmptyInputs(t *testing.T) {
	asm := NewAssembler(&AssemblerConfig{CharBudget: 4000, HistoryTurns: 6})
	payload := asm.Assemble(nil, nil, "", nil)
	assert.Empty(t, payload.Snippets)
	assert.Empty(t, payload.UserSummary)
	assert.Empty(t, payload.History)
}

func TestAssembleBudgetCountsSeparators(t *testing.T) {
	// Two 60-char snippets join to 125 chars; a 124 budget must evict
	// one even though the raw snippet lengths alone would fit.
	long := strings.Repeat("x", 60)
	asm := NewAssembler(&AssemblerConfig{CharBudget: 124, HistoryTurns: 6})
	matches := []model.CandidateMatch{
		{Score: 0.9, Snippet: long},
		{Score: 0.5, Snippet: long},
	}

	payload := asm.Assemble(matches, nil, "", nil)
	require.Len(t, payload.Snippets, 1)
	assert.LessOrEqual(t, len(payload.SnippetText()), 124)
}

func TestSnippetTextSeparators(t *testing.T) {
	payload := &ContextPayload{Snippets: []string{"a", "b"}}
	assert.Equal(t, "a\n---\nb", payload.SnippetText())
}
