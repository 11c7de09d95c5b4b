package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func TestProducts(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products, err := Products(now)
	require.NoError(t, err)
	require.Len(t, products, 8)

	express := 0
	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.Empty(t, p.ID)
		assert.False(t, p.Price.IsNegative())
		if p.Category == model.ExpressDelivery || p.DeliveryTime == model.ExpressDelivery {
			express++
		}
	}
	assert.Equal(t, 4, express)
	assert.True(t, products[0].CreatedAt.Equal(now))
}

func TestPosts(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts, err := Posts(now)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))
	assert.Equal(t, []string{"delivery", "express"}, posts[0].Tags)
}

func TestProducts_ReturnsFreshCopies(t *testing.T) {
	first, err := Products(time.Now())
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := Products(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", second[0].Name)
}
