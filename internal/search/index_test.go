package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upl-merch/assistant/internal/agent/model"
)

func testProducts() []model.Product {
	return []model.Product{
		{ID: "p1", Name: "Vipers SC Away Jersey", Description: "Purple away shirt", Team: "Vipers SC", Category: "jerseys", KitType: "away"},
		{ID: "p2", Name: "KCCA FC Knitted Scarf", Description: "Supporters scarf", Team: "KCCA FC", Category: "fan-gear"},
		{ID: "p3", Name: "Firm Ground Football Boots", Description: "Moulded studs, size 42", Category: "footwear"},
	}
}

func TestSearchMatchesNameAndDescription(t *testing.T) {
	idx, err := Build(testProducts())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ctx := context.Background()

	ids, err := idx.Search(ctx, "scarf", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)

	ids, err = idx.Search(ctx, "vipers jersey", 10)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, "p1", ids[0])

	ids, err = idx.Search(ctx, "boots", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, ids)
}

func TestSearchEmptyQuery(t *testing.T) {
	idx, err := Build(testProducts())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	ids, err := idx.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestAddReindexesByID(t *testing.T) {
	idx, err := Build(testProducts())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.Add(model.Product{ID: "p2", Name: "KCCA FC Bucket Hat", Category: "fan-gear"}))

	ids, err := idx.Search(context.Background(), "scarf", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
