// Package catalog holds the static storefront taxonomies used for filtering,
// content-schema option lists and enum validation.
package catalog

import (
	"fmt"
	"strings"
)

// Option is a single taxonomy entry: a short machine token and its label.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// SchemaOption is the shape content-schema option lists expect.
type SchemaOption struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Taxonomy is an ordered, non-empty list of options. The underlying slice
// is never handed out; every accessor returns a fresh copy.
type Taxonomy struct {
	name    string
	options []Option
	index   map[string]int
}

func newTaxonomy(name string, opts ...Option) Taxonomy {
	if len(opts) == 0 {
		panic(fmt.Sprintf("catalog: taxonomy %q has no options", name))
	}
	t := Taxonomy{
		name:    name,
		options: make([]Option, len(opts)),
		index:   make(map[string]int, len(opts)),
	}
	copy(t.options, opts)
	for i, o := range opts {
		if _, dup := t.index[o.Value]; dup {
			panic(fmt.Sprintf("catalog: taxonomy %q has duplicate value %q", name, o.Value))
		}
		t.index[o.Value] = i
	}
	return t
}

// Name identifies the taxonomy, e.g. "colors".
func (t Taxonomy) Name() string { return t.name }

// Len returns the number of options.
func (t Taxonomy) Len() int { return len(t.options) }

// Options returns the UI list.
func (t Taxonomy) Options() []Option {
	out := make([]Option, len(t.options))
	copy(out, t.options)
	return out
}

// SchemaList returns the options as title/value pairs.
func (t Taxonomy) SchemaList() []SchemaOption {
	out := make([]SchemaOption, len(t.options))
	for i, o := range t.options {
		out[i] = SchemaOption{Title: o.Label, Value: o.Value}
	}
	return out
}

// Values returns the value tokens in order. The result is never empty.
func (t Taxonomy) Values() []string {
	out := make([]string, len(t.options))
	for i, o := range t.options {
		out[i] = o.Value
	}
	return out
}

// Contains reports whether v is one of the taxonomy's values.
func (t Taxonomy) Contains(v string) bool {
	_, ok := t.index[v]
	return ok
}

// Label returns the label for v, or "" when v is unknown.
func (t Taxonomy) Label(v string) string {
	i, ok := t.index[v]
	if !ok {
		return ""
	}
	return t.options[i].Label
}

// Canonical maps v to the taxonomy's spelling, ignoring case and
// surrounding spaces ("  m " -> "M", "Away" -> "away").
func (t Taxonomy) Canonical(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if _, ok := t.index[v]; ok {
		return v, true
	}
	for _, o := range t.options {
		if strings.EqualFold(o.Value, v) {
			return o.Value, true
		}
	}
	return "", false
}
