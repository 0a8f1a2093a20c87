package model

import "time"

// Product is a sellable catalog item. Prices are whole Uganda shillings.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	Slug        string `json:"slug" yaml:"slug"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Team        string `json:"team,omitempty" yaml:"team"`
	KitType     string `json:"kit_type,omitempty" yaml:"kit_type"`
	Size        string `json:"size,omitempty" yaml:"size"`
	Color       string `json:"color,omitempty" yaml:"color"`
	Price       int64  `json:"price" yaml:"price"`
	Stock       int    `json:"stock" yaml:"stock"`
}

// ProductFilter narrows a catalog lookup. Zero values mean "no filter".
type ProductFilter struct {
	IDs      []string
	Category string
	Team     string
	KitType  string
	Size     string
	MinPrice int64
	MaxPrice int64
	Limit    int
}

// Order belongs to exactly one user.
type Order struct {
	ID          string      `json:"id" yaml:"id"`
	UserID      string      `json:"user_id" yaml:"user_id"`
	OrderNumber string      `json:"order_number" yaml:"order_number"`
	Status      string      `json:"status" yaml:"status"`
	Total       int64       `json:"total" yaml:"total"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	Items       []OrderItem `json:"items" yaml:"items"`
}

type OrderItem struct {
	ProductID string `json:"product_id" yaml:"product_id"`
	Name      string `json:"name" yaml:"name"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
	UnitPrice int64  `json:"unit_price" yaml:"unit_price"`
}
