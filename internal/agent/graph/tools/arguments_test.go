package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeArgs(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestSanitizeSearchArguments(t *testing.T) {
	got := decodeArgs(t, SanitizeArguments(ToolSearchProducts,
		`{"query":"  Vipers jersey ","category":"Jerseys","kitType":"fourth","size":" m ","team":" Vipers ","minPrice":-5,"maxPrice":"UGX 120,000"}`))

	assert.Equal(t, "Vipers jersey", got["query"])
	assert.Equal(t, "jerseys", got["category"])
	assert.NotContains(t, got, "kitType")
	assert.Equal(t, "M", got["size"])
	assert.Equal(t, "Vipers", got["team"])
	assert.Equal(t, float64(0), got["minPrice"])
	assert.Equal(t, float64(120000), got["maxPrice"])
}

func TestSanitizeCapsHugePrices(t *testing.T) {
	got := decodeArgs(t, SanitizeArguments(ToolSearchProducts, `{"minPrice":1e19,"maxPrice":"1e30"}`))
	assert.Equal(t, maxPrice, got["minPrice"])
	assert.Equal(t, maxPrice, got["maxPrice"])
}

func TestSanitizeDropsEmptyEnums(t *testing.T) {
	got := decodeArgs(t, SanitizeArguments(ToolSearchProducts, `{"query":"","category":"","size":""}`))
	assert.Equal(t, "", got["query"])
	assert.NotContains(t, got, "category")
	assert.NotContains(t, got, "size")
}

func TestSanitizeOrderArguments(t *testing.T) {
	got := decodeArgs(t, SanitizeArguments(ToolGetMyOrders, `{"status":"SHIPPED"}`))
	assert.Equal(t, "shipped", got["status"])

	got = decodeArgs(t, SanitizeArguments(ToolGetMyOrders, `{"status":"lost"}`))
	assert.NotContains(t, got, "status")
}

func TestSanitizeLeavesOtherInputAlone(t *testing.T) {
	assert.Equal(t, "not json", SanitizeArguments(ToolSearchProducts, "not json"))
	assert.Equal(t, `{"x": 1}`, SanitizeArguments("otherTool", `{"x": 1}`))
}
