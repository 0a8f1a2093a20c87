package api

import (
	"net/http"

	"github.com/upl-merch/assistant/internal/catalog"
)

// FilterSet is one taxonomy in every shape the storefront uses.
type FilterSet struct {
	Options []catalog.Option       `json:"options"`
	Schema  []catalog.SchemaOption `json:"schema"`
	Values  []string               `json:"values"`
}

// GetFilters lists every taxonomy keyed by name.
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, FilterSets())
}

// FilterSets projects all taxonomies into their API shape.
func FilterSets() map[string]FilterSet {
	all := catalog.All()
	out := make(map[string]FilterSet, len(all))
	for name, t := range all {
		out[name] = FilterSet{
			Options: t.Options(),
			Schema:  t.SchemaList(),
			Values:  t.Values(),
		}
	}
	return out
}
