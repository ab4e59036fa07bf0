package models

import "time"

type Product struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	PriceCents  int       `json:"price_cents" db:"price_cents"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type OrderStatus string

const (
	OrderPlaced   OrderStatus = "placed"
	OrderCanceled OrderStatus = "canceled"
)

type Order struct {
	ID         int         `json:"id" db:"id"`
	UserID     int         `json:"user_id" db:"user_id"`
	ProductID  int         `json:"product_id" db:"product_id"`
	Quantity   int         `json:"quantity" db:"quantity"`
	TotalCents int         `json:"total_cents" db:"total_cents"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}
