package catalog

// Colors used for product filtering.
var Colors = newTaxonomy("colors",
	Option{Value: "black", Label: "Black"},
	Option{Value: "white", Label: "White"},
	Option{Value: "red", Label: "Red"},
	Option{Value: "blue", Label: "Blue"},
	Option{Value: "green", Label: "Green"},
	Option{Value: "yellow", Label: "Yellow"},
	Option{Value: "orange", Label: "Orange"},
	Option{Value: "purple", Label: "Purple"},
	Option{Value: "maroon", Label: "Maroon"},
	Option{Value: "navy", Label: "Navy Blue"},
	Option{Value: "grey", Label: "Grey"},
)

// Materials are the kit / material variants shown in the filter sidebar.
var Materials = newTaxonomy("materials",
	Option{Value: "home", Label: "Home Kit"},
	Option{Value: "away", Label: "Away Kit"},
	Option{Value: "third", Label: "Third Kit"},
	Option{Value: "training", Label: "Training Wear"},
	Option{Value: "fan-gear", Label: "Fan Gear"},
)

// SortOptions are the product list orderings.
var SortOptions = newTaxonomy("sort",
	Option{Value: "name", Label: "Name (A-Z)"},
	Option{Value: "price_asc", Label: "Price: Low to High"},
	Option{Value: "price_desc", Label: "Price: High to Low"},
	Option{Value: "relevance", Label: "Relevance"},
)

// Categories accepted by the searchProducts tool.
var Categories = newTaxonomy("categories",
	Option{Value: "jerseys", Label: "Jerseys"},
	Option{Value: "training", Label: "Training Wear"},
	Option{Value: "fan-gear", Label: "Fan Gear"},
	Option{Value: "footwear", Label: "Footwear"},
	Option{Value: "accessories", Label: "Accessories"},
)

// KitTypes accepted by the searchProducts tool.
var KitTypes = newTaxonomy("kit_types",
	Option{Value: "home", Label: "Home"},
	Option{Value: "away", Label: "Away"},
	Option{Value: "third", Label: "Third"},
	Option{Value: "training", Label: "Training"},
)

// Sizes accepted by the searchProducts tool.
var Sizes = newTaxonomy("sizes",
	Option{Value: "XS", Label: "XS"},
	Option{Value: "S", Label: "S"},
	Option{Value: "M", Label: "M"},
	Option{Value: "L", Label: "L"},
	Option{Value: "XL", Label: "XL"},
	Option{Value: "XXL", Label: "XXL"},
	Option{Value: "kids", Label: "Kids"},
)

// OrderStatuses in lifecycle order.
var OrderStatuses = newTaxonomy("order_statuses",
	Option{Value: "pending", Label: "Pending"},
	Option{Value: "paid", Label: "Paid"},
	Option{Value: "shipped", Label: "Shipped"},
	Option{Value: "delivered", Label: "Delivered"},
	Option{Value: "cancelled", Label: "Cancelled"},
)

// Derived projections. They are computed from the taxonomies above, never
// written out by hand.
var (
	ColorsSchemaList    = Colors.SchemaList()
	MaterialsSchemaList = Materials.SchemaList()
	ColorValues         = Colors.Values()
	MaterialValues      = Materials.Values()
	SortValues          = SortOptions.Values()
)

// All returns every taxonomy keyed by name.
func All() map[string]Taxonomy {
	all := []Taxonomy{Colors, Materials, SortOptions, Categories, KitTypes, Sizes, OrderStatuses}
	out := make(map[string]Taxonomy, len(all))
	for _, t := range all {
		out[t.Name()] = t
	}
	return out
}
