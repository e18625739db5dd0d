package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/model"
)

func resolvedSet(products ...model.Product) *ResolvedCandidateSet {
	set := &ResolvedCandidateSet{products: make(map[int64]model.Product)}
	for _, p := range products {
		set.ids = append(set.ids, p.ID)
		set.products[p.ID] = p
	}
	return set
}

func TestGroundFiltersUnknownIDs(t *testing.T) {
	resolved := resolvedSet(
		model.Product{ID: 1, Name: "Trail Runner"},
		model.Product{ID: 2, Name: "Camp Stove"},
	)
	draft := &AnswerDraft{
		Text:       "Check out the Trail Runner.",
		ProductIDs: []int64{1, 7, 99},
	}

	answer, violations := Ground(draft, resolved)
	assert.Equal(t, []int64{1}, answer.ProductIDs)
	assert.Equal(t, 2, violations)
	require.Len(t, answer.Products, 1)
	assert.Equal(t, "Trail Runner", answer.Products[0].Name)
}

func TestGroundDeduplicates(t *testing.T) {
	resolved := resolvedSet(model.Product{ID: 1})
	draft := &AnswerDraft{Text: "twice", ProductIDs: []int64{1, 1, 1}}

	answer, violations := Ground(draft, resolved)
	assert.Equal(t, []int64{1}, answer.ProductIDs)
	assert.Zero(t, violations)
}

func TestGroundEmptyDraftList(t *testing.T) {
	resolved := resolvedSet(model.Product{ID: 1})
	draft := &AnswerDraft{Text: "no recommendations"}

	answer, violations := Ground(draft, resolved)
	assert.NotNil(t, answer.ProductIDs)
	assert.Empty(t, answer.ProductIDs)
	assert.Zero(t, violations)
}

func TestGroundEmptyResolvedSet(t *testing.T) {
	draft := &AnswerDraft{Text: "inventing things", ProductIDs: []int64{4, 5}}

	answer, violations := Ground(draft, &ResolvedCandidateSet{})
	assert.Empty(t, answer.ProductIDs)
	assert.Equal(t, 2, violations)
}

func TestEasterEggAnswer(t *testing.T) {
	tests := []struct {
		question string
		want     bool
	}{
		{"smores recipe", true},
		{"s'mores recipe", true},
		{"SMORES RECIPE", true},
		{"can I get the s’mores recipe please", true},
		{"recipe for smores", false},
		{"hiking boots", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			answer := EasterEggAnswer(tt.question)
			if tt.want {
				require.NotNil(t, answer)
				assert.NotEmpty(t, answer.Text)
				assert.Empty(t, answer.ProductIDs)
			} else {
				assert.Nil(t, answer)
			}
		})
	}
}
