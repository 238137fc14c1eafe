package queries

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// OrderReader loads an order aggregate without locking it.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler returns an order to the actors allowed to see it: an
// admin, the customer owning it, the manager of its branch and the partner
// holding its assignment.
type GetOrderQueryHandler struct {
	orders OrderReader
	policy services.AccessPolicy
}

func NewGetOrderQueryHandler(orders OrderReader, policy services.AccessPolicy) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, policy: policy}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.policy.Authorize(query.Actor(), services.CapViewOrder, services.OrderRelationship(o)); err != nil {
		return nil, err
	}
	return o, nil
}
