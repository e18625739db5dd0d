package biz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mercora/volt/internal/model"
)

// AssemblerConfig bounds the assembled context.
type AssemblerConfig struct {
	// CharBudget caps the total snippet text handed to the model.
	CharBudget int
	// HistoryTurns caps how many recent turns are forwarded, oldest first.
	HistoryTurns int
}

// ContextPayload is the assembled input for the answer generator.
type ContextPayload struct {
	// Snippets holds the retained snippet texts, retrieval order preserved.
	Snippets []string
	// UserSummary is a compact natural-language view of the user context.
	UserSummary string
	// History holds the trimmed conversation window, oldest first.
	History []model.ConversationTurn
}

// snippetSeparator delimits snippets in the assembled text. Its length
// counts against the character budget.
const snippetSeparator = "\n---\n"

// SnippetText joins the retained snippets with separators the model can
// distinguish.
func (p *ContextPayload) SnippetText() string {
	return strings.Join(p.Snippets, snippetSeparator)
}

// Assembler builds the generation context from retrieval output, user
// context and history.
type Assembler struct {
	config *AssemblerConfig
}

// NewAssembler creates the context assembly stage.
func NewAssembler(config *AssemblerConfig) *Assembler {
	return &Assembler{config: config}
}

// Assemble trims history to the configured window and fits snippets into
// the character budget. When the budget is exceeded, whole snippets are
// dropped lowest-score first; snippets are never cut mid-text.
func (a *Assembler) Assemble(matches []model.CandidateMatch, userCtx *model.UserContext, userName string, history []model.ConversationTurn) *ContextPayload {
	payload := &ContextPayload{
		UserSummary: summarizeUser(userCtx, userName),
		History:     TrimHistory(history, a.config.HistoryTurns),
	}

	kept := fitBudget(matches, a.config.CharBudget)
	for _, m := range kept {
		if strings.TrimSpace(m.Snippet) == "" {
			continue
		}
		payload.Snippets = append(payload.Snippets, m.Snippet)
	}
	return payload
}

// fitBudget drops the lowest-score matches until the retained snippets,
// separators included, fit the budget, preserving the original order of
// whatever survives.
func fitBudget(matches []model.CandidateMatch, budget int) []model.CandidateMatch {
	if budget <= 0 {
		return matches
	}

	sum := 0
	for _, m := range matches {
		sum += len(m.Snippet)
	}
	remaining := len(matches)
	if joinedLen(sum, remaining) <= budget {
		return matches
	}

	// Index the matches by ascending score so eviction starts from the
	// weakest hit.
	type indexed struct {
		pos   int
		match model.CandidateMatch
	}
	byScore := make([]indexed, len(matches))
	for i, m := range matches {
		byScore[i] = indexed{pos: i, match: m}
	}
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].match.Score < byScore[j].match.Score
	})

	dropped := make(map[int]bool)
	for _, entry := range byScore {
		if joinedLen(sum, remaining) <= budget {
			break
		}
		dropped[entry.pos] = true
		sum -= len(entry.match.Snippet)
		remaining--
	}

	kept := make([]model.CandidateMatch, 0, len(matches))
	for i, m := range matches {
		if !dropped[i] {
			kept = append(kept, m)
		}
	}
	return kept
}

// joinedLen is the length of n snippets of combined length sum once
// joined with the separator.
func joinedLen(sum, n int) int {
	if n <= 1 {
		return sum
	}
	return sum + len(snippetSeparator)*(n-1)
}

// summarizeUser renders the user context as a short sentence. It never
// includes more PII than the first name.
func summarizeUser(userCtx *model.UserContext, userName string) string {
	var parts []string
	if userName != "" {
		parts = append(parts, fmt.Sprintf("The customer's first name is %s.", firstName(userName)))
	}
	if userCtx == nil {
		if len(parts) == 0 {
			return ""
		}
		return strings.Join(parts, " ")
	}

	if n := len(userCtx.Orders); n > 0 {
		parts = append(parts, fmt.Sprintf("They have placed %d previous order(s) with us, total spend %s.",
			n, spendBucket(totalSpend(userCtx.Orders))))
	}
	if userCtx.IsVIPCustomer {
		parts = append(parts, "They are a VIP customer.")
	}
	if r := userCtx.PreferredPriceRange; r != nil {
		parts = append(parts, fmt.Sprintf("They usually shop in the $%d-$%d range.", r.Low/100, r.High/100))
	}
	return strings.Join(parts, " ")
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}

func totalSpend(orders []model.OrderSummary) int64 {
	var total int64
	for _, o := range orders {
		total += o.TotalAmount
	}
	return total
}

// spendBucket coarsens spend into ranges so exact totals never reach the
// model prompt.
func spendBucket(cents int64) string {
	switch {
	case cents < 5000:
		return "under $50"
	case cents < 20000:
		return "$50-$200"
	case cents < 50000:
		return "$200-$500"
	default:
		return "over $500"
	}
}
