package models

import (
	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/shopspring/decimal"
)

type UserInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type OrderItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    Money           `json:"total"`
}

// OrderDraft is the order body posted to the backend at checkout.
type OrderDraft struct {
	UserInfo      UserInfo            `json:"user_info"`
	Items         []OrderItem         `json:"items"`
	TotalAmount   Money               `json:"total_amount"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     Timestamp           `json:"created_at"`
}

type Order struct {
	ID int64 `json:"id"`
	OrderDraft
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt Timestamp `json:"updated_at"`
}
