package storage

import "time"

// Order is one customer order header as listed and edited by the office.
type Order struct {
	ID        int64     `json:"id"`
	OrderNum  string    `json:"order_num"`
	ClientID  int64     `json:"client_id"`
	Customer  string    `json:"customer"`
	OrderDate time.Time `json:"order_date"`
	DueDate   time.Time `json:"due_date"`
	Notes     *string   `json:"notes"`
	Items     []OrderItem `json:"items,omitempty"`
}

// OrderItem is one priced line of an order. Done is flipped by the factory
// as the line finishes production.
type OrderItem struct {
	ID          int64   `json:"id"`
	Position    int     `json:"position"`
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Done        bool    `json:"done"`
}

// SaveOrder is the create/replace payload for an order and its lines.
type SaveOrder struct {
	OrderNum  string      `json:"order_num"`
	ClientID  int64       `json:"client_id"`
	OrderDate string      `json:"order_date"`
	DueDate   string      `json:"due_date"`
	Notes     string      `json:"notes,omitempty"`
	Items     []OrderItem `json:"items"`
}
