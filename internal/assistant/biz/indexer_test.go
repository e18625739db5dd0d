package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mercora/volt/internal/model"
)

func TestRenderProduct(t *testing.T) {
	sale := int64(9900)
	p := &model.Product{
		ID:               7,
		Name:             "Alpine Tent",
		ShortDescription: "Two-person four-season tent.",
		Categories:       model.StringList{"camping", "shelter"},
		Tags:             model.StringList{"waterproof"},
		UseCases:         model.StringList{"backpacking"},
		Attributes:       model.StringMap{"weight": "1.8kg", "capacity": "2"},
		Price:            12900,
		SalePrice:        &sale,
		OnSale:           true,
		AINotes:          "Popular with winter hikers.",
	}

	text := RenderProduct(p)
	assert.Contains(t, text, "Alpine Tent (id 7)")
	assert.Contains(t, text, "Two-person four-season tent.")
	assert.Contains(t, text, "Categories: camping, shelter")
	assert.Contains(t, text, "Tags: waterproof")
	assert.Contains(t, text, "Good for: backpacking")
	assert.Contains(t, text, "Price: $99.00 (on sale, was $129.00)")
	assert.Contains(t, text, "Notes: Popular with winter hikers.")

	// attribute order is stable
	assert.Equal(t, text, RenderProduct(p))
}

func TestRenderProductMinimal(t *testing.T) {
	p := &model.Product{ID: 1, Name: "Mug", Price: 900}
	text := RenderProduct(p)
	assert.Contains(t, text, "Mug (id 1)")
	assert.Contains(t, text, "Price: $9.00")
	assert.NotContains(t, text, "Categories:")
	assert.NotContains(t, text, "Notes:")
}
