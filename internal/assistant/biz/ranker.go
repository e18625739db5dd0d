package biz

import (
	"sort"

	"github.com/mercora/volt/internal/model"
)

// Scoring weights for the personalization ranker. These are policy
// knobs, not physical constants; retune freely but keep the signs
// (repeat purchases penalized, sale and VIP-premium rewarded) and keep
// the scores additive so each signal stays independently auditable.
const (
	weightBase            = 1
	weightTagOverlap      = 3
	weightUseCaseOverlap  = 2
	weightCategoryMatch   = 2
	weightInPriceRange    = 2
	weightAbovePriceRange = -1
	weightVIPPremium      = 1
	weightOnSale          = 1
	weightAlreadyOwned    = -5

	// premiumPriceThreshold marks the price, in cents, above which VIP
	// customers get a nudge toward higher-end gear.
	premiumPriceThreshold = 10000
)

// Ranker is the personalization scorer. It is pure and synchronous:
// no I/O, safe to run on every render.
type Ranker struct{}

// NewRanker creates the scorer.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Score ranks products for a user context. The result is sorted by
// descending score with ties broken by input order (stable sort).
// viewingProduct and category are optional browse signals.
func (r *Ranker) Score(products []model.Product, userCtx *model.UserContext, viewingProduct *model.Product, category string) []model.ScoredProduct {
	purchased := map[int64]bool{}
	if userCtx != nil {
		purchased = userCtx.PurchasedProductIDs()
	}

	scored := make([]model.ScoredProduct, 0, len(products))
	for _, p := range products {
		scored = append(scored, model.ScoredProduct{
			Product: p,
			Score:   r.scoreOne(&p, userCtx, viewingProduct, category, purchased),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (r *Ranker) scoreOne(p *model.Product, userCtx *model.UserContext, viewing *model.Product, category string, purchased map[int64]bool) int {
	score := weightBase

	if viewing != nil && viewing.ID != p.ID {
		if overlaps(p.Tags, viewing.Tags) {
			score += weightTagOverlap
		}
		if overlaps(p.UseCases, viewing.UseCases) {
			score += weightUseCaseOverlap
		}
	}

	if category != "" && p.HasTag(category) {
		score += weightCategoryMatch
	}

	if purchased[p.ID] {
		score += weightAlreadyOwned
	}

	price := p.EffectivePrice()
	if userCtx != nil {
		if rng := userCtx.PreferredPriceRange; rng != nil {
			switch {
			case rng.Contains(price):
				score += weightInPriceRange
			case price > rng.High:
				score += weightAbovePriceRange
			}
		}
		if userCtx.IsVIPCustomer && price > premiumPriceThreshold {
			score += weightVIPPremium
		}
	}

	if p.OnSale {
		score += weightOnSale
	}
	return score
}

func overlaps(a, b model.StringList) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if set[s] {
			return true
		}
	}
	return false
}

// BuildUserContext derives the personalization inputs from raw order
// summaries. Recomputed per request; never cached here.
func BuildUserContext(userID string, orders []model.OrderSummary) *model.UserContext {
	userCtx := &model.UserContext{
		UserID: userID,
		Orders: orders,
	}
	if len(orders) == 0 {
		return userCtx
	}

	var total int64
	for _, o := range orders {
		total += o.TotalAmount
	}

	// Three orders or $500 lifetime spend makes a VIP.
	userCtx.IsVIPCustomer = len(orders) >= 3 || total >= 50000

	// The preferred range brackets the average order around +/-50%.
	avg := total / int64(len(orders))
	userCtx.PreferredPriceRange = &model.PriceRange{
		Low:  avg / 2,
		High: avg + avg/2,
	}
	return userCtx
}
