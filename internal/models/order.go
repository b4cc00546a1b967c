package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderLine is one (menu item, quantity) pair in a submitted order. The
// category is optional; when empty the item id is resolved by scanning
// categories in menu order. Price is whatever the client believed the item
// costs and is never used for computation.
type OrderLine struct {
	Category        string          `json:"category,omitempty"`
	ItemID          string          `json:"id"`
	Price           decimal.Decimal `json:"price"`
	OrderedQuantity int             `json:"orderedQuantity"`
}

// OrderRequest is the body of POST /restaurants/{id}/orders.
type OrderRequest struct {
	RestaurantID int         `json:"restaurantId"`
	Items        []OrderLine `json:"items"`
}

// OrderReceipt carries the server-computed monetary breakdown of an accepted
// order. The endpoint answers 201 with an empty body, so this is only logged
// and returned to callers inside the process.
type OrderReceipt struct {
	OrderID  string          `json:"order_id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ValidationError reports a single bad field in a request payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the payload shape only. Whether the referenced restaurant
// and items actually exist is decided against the catalog by the order
// service.
func (req *OrderRequest) Validate() error {
	if len(req.Items) == 0 {
		return ValidationError{
			Field:   "items",
			Message: "items cannot be empty",
		}
	}

	if len(req.Items) > 50 {
		return ValidationError{
			Field:   "items",
			Message: "a maximum of 50 items is allowed",
		}
	}

	for i, line := range req.Items {
		if err := validateLine(line, i); err != nil {
			return err
		}
	}
	return nil
}

func validateLine(line OrderLine, index int) error {
	if line.ItemID == "" {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].id", index),
			Message: "item id is required",
		}
	}

	if line.OrderedQuantity <= 0 {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].orderedQuantity", index),
			Message: "ordered quantity must be greater than 0",
		}
	}

	return nil
}
