package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

// ProductForm is the admin add/edit product form.
type ProductForm struct {
	Name             string           `json:"name"              validate:"not_blank"`
	ShortDescription string           `json:"short_description" validate:"not_blank"`
	LongDescription  string           `json:"long_description"  validate:"not_blank"`
	Price            decimal.Decimal  `json:"price"             validate:"gt=0"`
	SalePrice        *decimal.Decimal `json:"sale_price"`
	Stock            *int             `json:"stock"             validate:"required,gte=0"`
	MainImage        string           `json:"main_image"        validate:"required"`
	AdditionalImages []string         `json:"additional_images"`
	IsActive         *bool            `json:"is_active"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validators.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(ProductForm)
		if f.SalePrice != nil && f.SalePrice.GreaterThanOrEqual(f.Price) {
			sl.ReportError(f.SalePrice, "sale_price", "SalePrice", "below_price", "")
		}
	}, ProductForm{})
	return v
}

var productMessages = validators.Messages{
	"name":              "Product name is required",
	"short_description": "Short description is required",
	"long_description":  "Long description is required",
	"price":             "Price must be greater than 0",
	"sale_price":        "Sale price must be less than regular price",
	"stock":             "Stock must be 0 or greater",
	"main_image":        "Main image is required",
}

func ValidateProduct(f ProductForm) error {
	return validators.Check(formValidator, f, productMessages)
}

func (f ProductForm) input() apiclient.ProductInput {
	in := apiclient.ProductInput{
		Name:             f.Name,
		ShortDescription: f.ShortDescription,
		LongDescription:  f.LongDescription,
		Price:            f.Price,
		SalePrice:        f.SalePrice,
		MainImage:        f.MainImage,
		AdditionalImages: f.AdditionalImages,
		IsActive:         f.IsActive,
	}
	if f.Stock != nil {
		in.Stock = *f.Stock
	}
	return in
}
