package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64               `json:"id"                          validate:"required,gt=0"`
	Name             string              `json:"name"                        validate:"required"`
	ShortDescription string              `json:"short_description,omitempty"`
	LongDescription  string              `json:"long_description,omitempty"`
	Price            decimal.Decimal     `json:"price"`
	SalePrice        decimal.NullDecimal `json:"sale_price"`
	CurrentPrice     decimal.Decimal     `json:"current_price"`
	HasSale          Flag                `json:"has_sale"`
	Stock            int                 `json:"stock"                       validate:"gte=0"`
	MainImage        string              `json:"main_image,omitempty"`
	AdditionalImages []string            `json:"additional_images,omitempty"`
	IsActive         Flag                `json:"is_active"`
	CreatedAt        Timestamp           `json:"created_at"`
	UpdatedAt        Timestamp           `json:"updated_at"`
}

// EffectivePrice is the price a buyer pays. Backends that omit current_price
// fall back to the sale price when one applies, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if !p.CurrentPrice.IsZero() {
		return p.CurrentPrice
	}
	if bool(p.HasSale) && p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

type CartLineItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	HasSale      Flag            `json:"has_sale"`
	Stock        int             `json:"stock"`
	MainImage    string          `json:"main_image"`
	Quantity     int             `json:"quantity"`
}

func LineItemFromProduct(p Product, quantity int) CartLineItem {
	return CartLineItem{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CurrentPrice: p.EffectivePrice(),
		HasSale:      p.HasSale,
		Stock:        p.Stock,
		MainImage:    p.MainImage,
		Quantity:     quantity,
	}
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.CurrentPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Comment struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id,omitempty"`
	Comment   string      `json:"comment"`
	Rating    int         `json:"rating"`
	User      CommentUser `json:"user"`
	CreatedAt Timestamp   `json:"created_at"`
	UpdatedAt Timestamp   `json:"updated_at"`
}

type CommentUser struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
