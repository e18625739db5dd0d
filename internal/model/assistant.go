package model

import "time"

// Turn roles for conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior exchange in a chat session. History is
// append-only and owned by the caller; the pipeline reads it and appends
// the new turn to the response.
type ConversationTurn struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ProductIDs []int64   `json:"productIds,omitempty"`
}

// Query is one inbound assistant request. Immutable once received.
type Query struct {
	Question string             `json:"question"`
	UserName string             `json:"userName,omitempty"`
	UserID   string             `json:"userId,omitempty"`
	History  []ConversationTurn `json:"history,omitempty"`
}

// CandidateMatch is one hit from the vector index. Scores are
// non-increasing across a result sequence.
type CandidateMatch struct {
	EntryID   int64   `json:"entryId"`
	Score     float32 `json:"score"`
	Snippet   string  `json:"snippet"`
	ProductID int64   `json:"productId"`
}

// Answer is the grounded pipeline output: ProductIDs is always a subset
// of the product ids resolved from the same request's retrieval.
type Answer struct {
	Text       string    `json:"text"`
	ProductIDs []int64   `json:"productIds"`
	Products   []Product `json:"products,omitempty"`
}

// PriceRange is a closed interval in cents.
type PriceRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Contains reports whether price falls inside the range.
func (r *PriceRange) Contains(price int64) bool {
	return price >= r.Low && price <= r.High
}

// UserContext carries the per-request personalization inputs derived
// from order history. Never cached beyond the request.
type UserContext struct {
	UserID              string         `json:"userId,omitempty"`
	Orders              []OrderSummary `json:"orders,omitempty"`
	IsVIPCustomer       bool           `json:"isVipCustomer"`
	PreferredPriceRange *PriceRange    `json:"preferredPriceRange,omitempty"`
}

// PurchasedProductIDs returns the set of product ids across all orders.
func (u *UserContext) PurchasedProductIDs() map[int64]bool {
	purchased := make(map[int64]bool)
	for _, order := range u.Orders {
		for _, id := range order.ProductIDs {
			purchased[id] = true
		}
	}
	return purchased
}

// ScoredProduct pairs a product with its additive personalization score.
// Only relative order matters.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   int     `json:"score"`
}
