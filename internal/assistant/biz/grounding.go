package biz

import (
	"strings"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/model"
)

// smoresRecipe is the fixed easter-egg answer. It bypasses the whole
// pipeline and carries no product grounding.
const smoresRecipe = `You found the secret campfire menu! Here's the classic s'mores recipe:

1. Toast a marshmallow over the fire until golden (or charred, no judgment).
2. Sandwich it with a square of chocolate between two graham crackers.
3. Squish gently, let the chocolate melt, and enjoy.

Pro tip: two marshmallows. Always two.`

// EasterEggAnswer returns the hardcoded answer for trigger questions, or
// nil. Checked before any external call; the apostrophe is optional and
// matching is case-insensitive.
func EasterEggAnswer(question string) *model.Answer {
	normalized := strings.ToLower(strings.TrimSpace(question))
	normalized = strings.ReplaceAll(normalized, "'", "")
	normalized = strings.ReplaceAll(normalized, "’", "")
	if strings.Contains(normalized, "smores recipe") {
		return &model.Answer{Text: smoresRecipe, ProductIDs: []int64{}}
	}
	return nil
}

// Ground enforces the grounding boundary: the draft's self-reported ids
// are intersected with the resolved set and anything outside it is
// dropped. The policy filters data, it never fact-checks free text, and
// a violation downgrades the id list rather than failing the request.
// It returns the grounded answer and the number of ids that were dropped.
func Ground(draft *AnswerDraft, resolved *ResolvedCandidateSet) (*model.Answer, int) {
	answer := &model.Answer{
		Text:       draft.Text,
		ProductIDs: []int64{},
	}

	violations := 0
	seen := make(map[int64]bool)
	for _, id := range draft.ProductIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !resolved.Contains(id) {
			violations++
			continue
		}
		answer.ProductIDs = append(answer.ProductIDs, id)
		if p, ok := resolved.Product(id); ok {
			answer.Products = append(answer.Products, p)
		}
	}

	if violations > 0 {
		logger.Warnw("filtered ungrounded product ids", "dropped", violations, "kept", len(answer.ProductIDs))
	}
	return answer, violations
}
