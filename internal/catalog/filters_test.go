package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionsStayInSync(t *testing.T) {
	for name, tax := range All() {
		t.Run(name, func(t *testing.T) {
			opts := tax.Options()
			schema := tax.SchemaList()
			values := tax.Values()

			require.NotEmpty(t, values)
			require.Len(t, schema, len(opts))
			require.Len(t, values, len(opts))

			for i, o := range opts {
				assert.Equal(t, o.Value, schema[i].Value)
				assert.Equal(t, o.Label, schema[i].Title)
				assert.Equal(t, o.Value, values[i])
			}
		})
	}
}

func TestPackageProjections(t *testing.T) {
	if diff := cmp.Diff(Colors.Values(), ColorValues); diff != "" {
		t.Errorf("ColorValues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Materials.Values(), MaterialValues); diff != "" {
		t.Errorf("MaterialValues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Colors.SchemaList(), ColorsSchemaList); diff != "" {
		t.Errorf("ColorsSchemaList mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Materials.SchemaList(), MaterialsSchemaList); diff != "" {
		t.Errorf("MaterialsSchemaList mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"name", "price_asc", "price_desc", "relevance"}, SortValues)
}

func TestCanonicalOrder(t *testing.T) {
	assert.Equal(t, []string{
		"black", "white", "red", "blue", "green", "yellow",
		"orange", "purple", "maroon", "navy", "grey",
	}, Colors.Values())
	assert.Equal(t, []string{"home", "away", "third", "training", "fan-gear"}, Materials.Values())
	assert.Equal(t, "Navy Blue", Colors.Label("navy"))
	assert.Equal(t, "Fan Gear", Materials.Label("fan-gear"))
}

func TestAccessorsReturnCopies(t *testing.T) {
	opts := Colors.Options()
	opts[0].Label = "Jet"
	values := Colors.Values()
	values[0] = "jet"

	assert.Equal(t, "Black", Colors.Label("black"))
	assert.Equal(t, "black", Colors.Values()[0])
}

func TestContainsAndLabel(t *testing.T) {
	assert.True(t, Sizes.Contains("XXL"))
	assert.False(t, Sizes.Contains("xxl"))
	assert.Equal(t, "", KitTypes.Label("fan-gear"))
	assert.True(t, OrderStatuses.Contains("shipped"))
}

func TestEmptyTaxonomyPanics(t *testing.T) {
	assert.Panics(t, func() { newTaxonomy("empty") })
	assert.Panics(t, func() {
		newTaxonomy("dup", Option{Value: "a"}, Option{Value: "a"})
	})
}

func TestCanonical(t *testing.T) {
	v, ok := Sizes.Canonical(" m ")
	require.True(t, ok)
	assert.Equal(t, "M", v)

	v, ok = Categories.Canonical("Fan-Gear")
	require.True(t, ok)
	assert.Equal(t, "fan-gear", v)

	_, ok = KitTypes.Canonical("fourth")
	assert.False(t, ok)
}
