package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercora/volt/internal/model"
)

func TestScoreTagOverlapRanksHigher(t *testing.T) {
	ranker := NewRanker()
	viewing := &model.Product{ID: 1, Tags: model.StringList{"hiking", "waterproof"}}

	products := []model.Product{
		{ID: 2, Name: "No Overlap", Price: 5000, Tags: model.StringList{"kitchen"}},
		{ID: 3, Name: "Overlap", Price: 5000, Tags: model.StringList{"hiking"}},
	}

	scored := ranker.Score(products, nil, viewing, "")
	require.Len(t, scored, 2)
	assert.Equal(t, int64(3), scored[0].Product.ID)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestScoreStableTieBreak(t *testing.T) {
	ranker := NewRanker()
	products := []model.Product{
		{ID: 5, Name: "First", Price: 1000},
		{ID: 6, Name: "Second", Price: 1000},
		{ID: 7, Name: "Third", Price: 1000},
	}

	scored := ranker.Score(products, nil, nil, "")
	require.Len(t, scored, 3)
	// identical scores keep input order
	assert.Equal(t, int64(5), scored[0].Product.ID)
	assert.Equal(t, int64(6), scored[1].Product.ID)
	assert.Equal(t, int64(7), scored[2].Product.ID)
}

func TestScorePreviousPurchasePenalized(t *testing.T) {
	ranker := NewRanker()
	userCtx := &model.UserContext{
		Orders: []model.OrderSummary{{OrderID: 1, ProductIDs: []int64{2}}},
	}

	products := []model.Product{
		{ID: 2, Name: "Owned", Price: 5000},
		{ID: 3, Name: "New", Price: 5000},
	}

	scored := ranker.Score(products, userCtx, nil, "")
	require.Len(t, scored, 2)
	assert.Equal(t, int64(3), scored[0].Product.ID)
	assert.Equal(t, scored[1].Score, scored[0].Score+weightAlreadyOwned)
}

func TestScorePriceRangeSignals(t *testing.T) {
	ranker := NewRanker()
	userCtx := &model.UserContext{
		PreferredPriceRange: &model.PriceRange{Low: 2000, High: 6000},
	}

	products := []model.Product{
		{ID: 1, Name: "In Range", Price: 4000},
		{ID: 2, Name: "Above", Price: 9000},
		{ID: 3, Name: "Below", Price: 1000},
	}

	scored := ranker.Score(products, userCtx, nil, "")
	byID := map[int64]int{}
	for _, sp := range scored {
		byID[sp.Product.ID] = sp.Score
	}
	assert.Equal(t, weightBase+weightInPriceRange, byID[1])
	assert.Equal(t, weightBase+weightAbovePriceRange, byID[2])
	assert.Equal(t, weightBase, byID[3])
}

func TestScoreVIPPremiumAndSale(t *testing.T) {
	ranker := NewRanker()
	vip := &model.UserContext{IsVIPCustomer: true}

	sale := int64(8000)
	products := []model.Product{
		{ID: 1, Name: "Premium", Price: premiumPriceThreshold + 1},
		{ID: 2, Name: "Budget", Price: 2000},
		{ID: 3, Name: "On Sale", Price: 9000, SalePrice: &sale, OnSale: true},
	}

	scored := ranker.Score(products, vip, nil, "")
	byID := map[int64]int{}
	for _, sp := range scored {
		byID[sp.Product.ID] = sp.Score
	}
	assert.Equal(t, weightBase+weightVIPPremium, byID[1])
	assert.Equal(t, weightBase, byID[2])
	assert.Equal(t, weightBase+weightOnSale, byID[3])
}

func TestScoreCategoryMatch(t *testing.T) {
	ranker := NewRanker()
	products := []model.Product{
		{ID: 1, Name: "Tagged", Price: 3000, Tags: model.StringList{"camping"}},
		{ID: 2, Name: "Untagged", Price: 3000},
	}

	scored := ranker.Score(products, nil, nil, "camping")
	assert.Equal(t, int64(1), scored[0].Product.ID)
	assert.Equal(t, weightBase+weightCategoryMatch, scored[0].Score)
}

func TestScoreUseCaseOverlap(t *testing.T) {
	ranker := NewRanker()
	viewing := &model.Product{ID: 1, UseCases: model.StringList{"backpacking"}}
	products := []model.Product{
		{ID: 2, Name: "Match", Price: 3000, UseCases: model.StringList{"backpacking", "travel"}},
		{ID: 3, Name: "Miss", Price: 3000, UseCases: model.StringList{"fishing"}},
	}

	scored := ranker.Score(products, nil, viewing, "")
	assert.Equal(t, int64(2), scored[0].Product.ID)
	assert.Equal(t, weightBase+weightUseCaseOverlap, scored[0].Score)
}

func TestBuildUserContext(t *testing.T) {
	tests := []struct {
		name      string
		orders    []model.OrderSummary
		wantVIP   bool
		wantRange bool
	}{
		{
			name:   "no orders",
			orders: nil,
		},
		{
			name: "single small order",
			orders: []model.OrderSummary{
				{OrderID: 1, TotalAmount: 4000},
			},
			wantRange: true,
		},
		{
			name: "three orders makes vip",
			orders: []model.OrderSummary{
				{OrderID: 1, TotalAmount: 4000},
				{OrderID: 2, TotalAmount: 4000},
				{OrderID: 3, TotalAmount: 4000},
			},
			wantVIP:   true,
			wantRange: true,
		},
		{
			name: "big spender is vip",
			orders: []model.OrderSummary{
				{OrderID: 1, TotalAmount: 60000},
			},
			wantVIP:   true,
			wantRange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userCtx := BuildUserContext("u-1", tt.orders)
			assert.Equal(t, tt.wantVIP, userCtx.IsVIPCustomer)
			if tt.wantRange {
				require.NotNil(t, userCtx.PreferredPriceRange)
				assert.Less(t, userCtx.PreferredPriceRange.Low, userCtx.PreferredPriceRange.High)
			} else {
				assert.Nil(t, userCtx.PreferredPriceRange)
			}
		})
	}
}
