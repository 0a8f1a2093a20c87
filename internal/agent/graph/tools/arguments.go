package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/upl-merch/assistant/internal/catalog"
)

// SanitizeArguments normalizes model-produced tool arguments before they are
// decoded: strings are trimmed, enum values outside their taxonomy are
// dropped, and prices are coerced to non-negative numbers. It never fails;
// arguments that are not a JSON object are returned unchanged.
func SanitizeArguments(name, arguments string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return arguments
	}

	switch name {
	case ToolSearchProducts:
		trimString(m, "query")
		trimString(m, "team")
		canonicalEnum(m, "category", catalog.Categories)
		canonicalEnum(m, "kitType", catalog.KitTypes)
		canonicalEnum(m, "size", catalog.Sizes)
		coercePrice(m, "minPrice")
		coercePrice(m, "maxPrice")
	case ToolGetMyOrders:
		canonicalEnum(m, "status", catalog.OrderStatuses)
	default:
		return arguments
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments
	}
	return string(b)
}

func trimString(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch vv := v.(type) {
	case string:
		m[key] = strings.TrimSpace(vv)
	case nil:
		delete(m, key)
	default:
		m[key] = strings.TrimSpace(fmt.Sprint(v))
	}
}

func canonicalEnum(m map[string]any, key string, t catalog.Taxonomy) {
	v, ok := m[key]
	if !ok {
		return
	}
	s, isString := v.(string)
	if !isString {
		delete(m, key)
		return
	}
	c, known := t.Canonical(s)
	if !known {
		delete(m, key)
		return
	}
	m[key] = c
}

func coercePrice(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	var n float64
	switch vv := v.(type) {
	case float64:
		n = vv
	case string:
		cleaned := strings.NewReplacer("UGX", "", "ugx", "", ",", "", " ", "").Replace(vv)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			delete(m, key)
			return
		}
		n = parsed
	default:
		delete(m, key)
		return
	}
	if n < 0 || math.IsNaN(n) {
		n = 0
	}
	if n > maxPrice {
		n = maxPrice
	}
	m[key] = n
}

// maxPrice caps coerced prices so they stay representable as whole shillings.
const maxPrice = float64(math.MaxInt64)
