package order

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// Item is one purchased line. Prices are a snapshot taken from the catalog at
// order creation.
type Item struct {
	ProductID       kernel.UUID
	Quantity        int
	UnitPrice       kernel.Money
	CustomizedPrice *kernel.Money
}

// NewItem validates a purchased line.
func NewItem(productID kernel.UUID, quantity int, unitPrice kernel.Money, customizedPrice *kernel.Money) (Item, error) {
	var errList []error
	if err := productID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"unit price is invalid", fmt.Errorf("%s is negative", unitPrice)))
	}
	if customizedPrice != nil && *customizedPrice < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"customized price is invalid", fmt.Errorf("%s is negative", *customizedPrice)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}
	return Item{
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		CustomizedPrice: customizedPrice,
	}, nil
}

// EffectivePrice is the customized price when one was set, the unit price otherwise.
func (i Item) EffectivePrice() kernel.Money {
	if i.CustomizedPrice != nil {
		return *i.CustomizedPrice
	}
	return i.UnitPrice
}

// Subtotal is quantity times the effective price.
func (i Item) Subtotal() kernel.Money {
	return i.EffectivePrice().Times(i.Quantity)
}

// ReturnedItem is a line of a return request.
type ReturnedItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// Address is a postal address. Coordinates is required on the shipping
// address of any order that may be picked up for a return.
type Address struct {
	Name        string
	Line1       string
	Line2       string
	City        string
	State       string
	PostalCode  string
	Country     string
	Phone       string
	Coordinates *kernel.GeoPoint
}
