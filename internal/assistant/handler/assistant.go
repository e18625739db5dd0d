// Package handler provides the assistant's HTTP handlers.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/biz"
	"github.com/mercora/volt/internal/assistant/metrics"
	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/errors"
)

// AssistantHandler handles the chat and recommendation endpoints.
type AssistantHandler struct {
	service  biz.Service
	sessions store.SessionStore
}

// NewAssistantHandler creates the handler. sessions may be nil when
// server-side history is disabled.
func NewAssistantHandler(service biz.Service, sessions store.SessionStore) *AssistantHandler {
	return &AssistantHandler{service: service, sessions: sessions}
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AskRequest is the POST /assistant/ask body.
type AskRequest struct {
	Question  string                   `json:"question" binding:"required"`
	UserName  string                   `json:"userName,omitempty"`
	UserID    string                   `json:"userId,omitempty"`
	SessionID string                   `json:"sessionId,omitempty"`
	History   []model.ConversationTurn `json:"history,omitempty"`
}

// AskResponse is the POST /assistant/ask reply.
type AskResponse struct {
	Answer     string                   `json:"answer"`
	ProductIDs []int64                  `json:"productIds"`
	Products   []model.Product          `json:"products,omitempty"`
	History    []model.ConversationTurn `json:"history"`
}

// Ask answers one chat question. Upstream degradation still yields a
// 200 with fallback text; only a missing question is a client error.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: errors.ErrInvalidInput.Code, Message: "question is required"})
		return
	}

	history := req.History
	// With a session id and server-side history enabled, the stored
	// history wins over whatever the client sent.
	if h.sessions != nil && req.SessionID != "" {
		if stored, err := h.sessions.Load(c.Request.Context(), req.SessionID); err == nil && len(stored) > 0 {
			history = stored
		}
	}

	result, err := h.service.Ask(c.Request.Context(), &model.Query{
		Question: req.Question,
		UserName: req.UserName,
		UserID:   req.UserID,
		History:  history,
	})
	if err != nil {
		e := errors.FromError(err)
		c.JSON(e.HTTP, ErrorResponse{Code: e.Code, Message: e.Message})
		return
	}

	if h.sessions != nil && req.SessionID != "" {
		// Session persistence is best-effort; the answer still ships.
		newTurns := result.History[len(history):]
		if err := h.sessions.Append(c.Request.Context(), req.SessionID, newTurns...); err != nil {
			logger.Warnw("failed to persist session history", "session", req.SessionID, "error", err.Error())
		}
	}

	c.JSON(http.StatusOK, AskResponse{
		Answer:     result.Answer.Text,
		ProductIDs: result.Answer.ProductIDs,
		Products:   result.Answer.Products,
		History:    result.History,
	})
}

// RecommendationItem pairs a product with its rank score.
type RecommendationItem struct {
	Product model.Product `json:"product"`
	Score   int           `json:"score"`
}

// RecommendationsResponse is the GET /recommendations reply.
type RecommendationsResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
}

// Recommendations returns a ranked product list for the query
// parameters productId, userId, category and limit.
func (h *AssistantHandler) Recommendations(c *gin.Context) {
	userID := c.Query("userId")
	category := c.Query("category")

	var productID int64
	if raw := c.Query("productId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Code: errors.ErrInvalidInput.Code, Message: "productId must be a positive integer"})
			return
		}
		productID = id
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Code: errors.ErrInvalidInput.Code, Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	scored, err := h.service.Recommend(c.Request.Context(), userID, productID, category, limit)
	if err != nil {
		e := errors.FromError(err)
		c.JSON(e.HTTP, ErrorResponse{Code: e.Code, Message: e.Message})
		return
	}

	items := make([]RecommendationItem, 0, len(scored))
	for _, sp := range scored {
		items = append(items, RecommendationItem{Product: sp.Product, Score: sp.Score})
	}
	c.JSON(http.StatusOK, RecommendationsResponse{Recommendations: items})
}

// IndexResponse is the POST /assistant/index reply.
type IndexResponse struct {
	Indexed int `json:"indexed"`
}

// Index rebuilds the product vector index from the catalog.
func (h *AssistantHandler) Index(c *gin.Context) {
	n, err := h.service.IndexCatalog(c.Request.Context())
	if err != nil {
		e := errors.FromError(err)
		c.JSON(e.HTTP, ErrorResponse{Code: e.Code, Message: e.Message})
		return
	}
	c.JSON(http.StatusOK, IndexResponse{Indexed: n})
}

// StatsResponse is the GET /assistant/stats reply.
type StatsResponse struct {
	Index   *biz.IndexStats  `json:"index"`
	Metrics metrics.Snapshot `json:"metrics"`
}

// Stats reports index size and pipeline counters.
func (h *AssistantHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		e := errors.FromError(err)
		c.JSON(e.HTTP, ErrorResponse{Code: e.Code, Message: e.Message})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		Index:   stats,
		Metrics: metrics.GetAssistantMetrics().GetSnapshot(),
	})
}
