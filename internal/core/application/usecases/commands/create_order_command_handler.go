package commands

import (
	"context"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// CreateOrderCommandHandler places new orders.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(orderUoWFactory, commands.Env{Logger: logger})
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// o is in confirm (cash on delivery) or pending (paid online)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	base
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, env Env) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "create_order"),
	}
}

// Handle authorizes the caller for the customer, builds the order and
// persists it.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	customerID := cmd.CustomerID()
	if err := h.policy.Authorize(cmd.Actor(), services.CapCreateOrder,
		services.Relationship{CustomerID: &customerID}); err != nil {
		return nil, h.rejected("create_order", err)
	}

	o, err := order.NewOrder(cmd.OrderID(), customerID, cmd.Items(),
		cmd.ShippingAddress(), cmd.BillingAddress(), cmd.PaymentMethod(), h.now())
	if err != nil {
		return nil, h.rejected("create_order", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.committed(ctx, "create_order", o)
	return o, nil
}
