package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a checkout placing a new order.
// Line prices are the catalog snapshots taken by checkout.
//
// Example:
//
//	item, _ := order.NewItem(productID, 2, kernel.Units(250), nil)
//	cmd, err := NewCreateOrderCommand(customer, kernel.NewUUID(), customer.UserID,
//	    []order.Item{item}, shipping, billing, order.PaymentCOD)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(orderUoWFactory, env)
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor         actor.Actor
	orderID       kernel.UUID
	customerID    kernel.UUID
	items         []order.Item
	shipping      order.Address
	billing       order.Address
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates a checkout request.
// The shipping address needs at least a first line; its coordinates are
// checked later, when the order is matched to a branch.
func NewCreateOrderCommand(
	a actor.Actor,
	orderID kernel.UUID,
	customerID kernel.UUID,
	items []order.Item,
	shipping order.Address,
	billing order.Address,
	paymentMethod order.PaymentMethod,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(a),
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setShipping(shipping),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.billing = billing

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() actor.Actor {
	return c.actor
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns a copy of the purchased lines.
func (c CreateOrderCommand) Items() []order.Item {
	return append([]order.Item(nil), c.items...)
}

func (c CreateOrderCommand) ShippingAddress() order.Address {
	return c.shipping
}

func (c CreateOrderCommand) BillingAddress() order.Address {
	return c.billing
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c *CreateOrderCommand) setActor(a actor.Actor) error {
	if err := validateActor(a); err != nil {
		return err
	}
	c.actor = a
	return nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.items = append([]order.Item(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setShipping(shipping order.Address) error {
	if strings.TrimSpace(shipping.Line1) == "" {
		return errs.NewValueIsRequiredError("shippingAddress.line1")
	}
	if shipping.Coordinates != nil {
		if err := shipping.Coordinates.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("shippingAddress.coordinates", err)
		}
	}

	c.shipping = shipping
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
