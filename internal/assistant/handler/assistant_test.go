package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/assistant/biz"
	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/errors"
)

// fakeService implements biz.Service with canned results.
type fakeService struct {
	askResult *biz.AskResult
	askErr    error
	lastQuery *model.Query
	scored    []model.ScoredProduct
	recErr    error
	indexed   int
}

func (f *fakeService) Ask(ctx context.Context, query *model.Query) (*biz.AskResult, error) {
	f.lastQuery = query
	return f.askResult, f.askErr
}

func (f *fakeService) Recommend(ctx context.Context, userID string, viewingProductID int64, category string, limit int) ([]model.ScoredProduct, error) {
	return f.scored, f.recErr
}

func (f *fakeService) IndexCatalog(ctx context.Context) (int, error) {
	return f.indexed, nil
}

func (f *fakeService) Stats(ctx context.Context) (*biz.IndexStats, error) {
	return &biz.IndexStats{Collection: "products", Entries: 3}, nil
}

func setupRouter(svc biz.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAssistantHandler(svc, nil)
	engine := gin.New()
	engine.POST("/assistant/ask", h.Ask)
	engine.GET("/recommendations", h.Recommendations)
	engine.POST("/assistant/index", h.Index)
	engine.GET("/assistant/stats", h.Stats)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAskSuccess(t *testing.T) {
	svc := &fakeService{askResult: &biz.AskResult{
		Answer: &model.Answer{
			Text:       "Try the Trail Runner.",
			ProductIDs: []int64{1},
			Products:   []model.Product{{ID: 1, Name: "Trail Runner"}},
		},
		History: []model.ConversationTurn{
			{Role: model.RoleUser, Content: "hiking shoes"},
			{Role: model.RoleAssistant, Content: "Try the Trail Runner.", ProductIDs: []int64{1}},
		},
	}}
	engine := setupRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/assistant/ask", AskRequest{Question: "hiking shoes", UserName: "Sam"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Try the Trail Runner.", resp.Answer)
	assert.Equal(t, []int64{1}, resp.ProductIDs)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "Sam", svc.lastQuery.UserName)
}

func TestAskMissingQuestion(t *testing.T) {
	engine := setupRouter(&fakeService{})

	w := doJSON(t, engine, http.MethodPost, "/assistant/ask", map[string]string{"userName": "Sam"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrInvalidInput.Code, resp.Code)
}

func TestAskServiceInvalidInput(t *testing.T) {
	svc := &fakeService{askErr: errors.ErrInvalidInput.WithMessage("question must not be empty")}
	engine := setupRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/assistant/ask", AskRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskUnexpectedErrorIs500(t *testing.T) {
	svc := &fakeService{askErr: assert.AnError}
	engine := setupRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/assistant/ask", AskRequest{Question: "boots"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecommendations(t *testing.T) {
	svc := &fakeService{scored: []model.ScoredProduct{
		{Product: model.Product{ID: 2, Name: "Camp Stove"}, Score: 4},
		{Product: model.Product{ID: 1, Name: "Trail Runner"}, Score: 1},
	}}
	engine := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/recommendations?productId=3&userId=u-1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, int64(2), resp.Recommendations[0].Product.ID)
	assert.Equal(t, 4, resp.Recommendations[0].Score)
}

func TestRecommendationsBadProductID(t *testing.T) {
	engine := setupRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/recommendations?productId=abc", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndex(t *testing.T) {
	engine := setupRouter(&fakeService{indexed: 12})

	w := doJSON(t, engine, http.MethodPost, "/assistant/index", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp IndexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Indexed)
}

func TestStats(t *testing.T) {
	engine := setupRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/assistant/stats", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Index)
	assert.Equal(t, int64(3), resp.Index.Entries)
}
