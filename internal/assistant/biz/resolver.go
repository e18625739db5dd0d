package biz

import (
	"context"

	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/internal/model"
)

// ResolvedCandidateSet is the grounding boundary: the product ids from a
// retrieval that exist and are active in the catalog, deduplicated in
// first-seen order. The final answer's product ids must be a subset.
type ResolvedCandidateSet struct {
	ids      []int64
	products map[int64]model.Product
}

// IDs returns the resolved ids in first-seen order.
func (s *ResolvedCandidateSet) IDs() []int64 {
	return s.ids
}

// Contains reports whether id is inside the grounding boundary.
func (s *ResolvedCandidateSet) Contains(id int64) bool {
	_, ok := s.products[id]
	return ok
}

// Product returns the catalog entry for a resolved id.
func (s *ResolvedCandidateSet) Product(id int64) (model.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Products returns the resolved products in first-seen order.
func (s *ResolvedCandidateSet) Products() []model.Product {
	out := make([]model.Product, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.products[id])
	}
	return out
}

// Len returns the number of resolved products.
func (s *ResolvedCandidateSet) Len() int {
	return len(s.ids)
}

// Resolver maps candidate matches onto the live catalog.
type Resolver struct {
	catalog store.CatalogStore
}

// NewResolver creates the candidate resolution stage.
func NewResolver(catalog store.CatalogStore) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve extracts product ids from matches in first-seen order,
// deduplicates them, and drops any id that is missing or inactive in the
// catalog. Individual misses are never errors.
func (r *Resolver) Resolve(ctx context.Context, matches []model.CandidateMatch) (*ResolvedCandidateSet, error) {
	seen := make(map[int64]bool)
	var ordered []int64
	for _, m := range matches {
		if m.ProductID <= 0 || seen[m.ProductID] {
			continue
		}
		seen[m.ProductID] = true
		ordered = append(ordered, m.ProductID)
	}

	resolved := &ResolvedCandidateSet{products: make(map[int64]model.Product)}
	if len(ordered) == 0 {
		return resolved, nil
	}

	products, err := r.catalog.GetProductsByIDs(ctx, ordered)
	if err != nil {
		return nil, err
	}

	found := make(map[int64]model.Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}

	for _, id := range ordered {
		p, ok := found[id]
		if !ok {
			continue
		}
		resolved.ids = append(resolved.ids, id)
		resolved.products[id] = p
	}
	return resolved, nil
}
