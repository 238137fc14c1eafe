package http

import (
	"log/slog"
	"net/http"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases the HTTP adapter exposes.
type Handlers struct {
	CreateOrder          commands.CreateOrderCommandHandler
	CancelOrder          commands.CancelOrderCommandHandler
	UpdateOrderStatus    commands.UpdateOrderStatusCommandHandler
	AssignOrderToBranch  commands.AssignOrderToBranchCommandHandler
	OfferToPartner       commands.OfferToPartnerCommandHandler
	AcceptAssignment     commands.AcceptAssignmentCommandHandler
	RejectAssignment     commands.RejectAssignmentCommandHandler
	ReassignPartner      commands.ReassignPartnerCommandHandler
	UpdateDeliveryStatus commands.UpdateDeliveryStatusCommandHandler
	RequestReturn        commands.RequestReturnCommandHandler
	SetReturnApproval    commands.SetReturnApprovalCommandHandler
	SetRefundStatus      commands.SetRefundStatusCommandHandler
	CreateBranch         commands.CreateBranchCommandHandler
	AddPartnerToBranch   commands.AddPartnerToBranchCommandHandler
	RegisterPartner      commands.RegisterPartnerCommandHandler
	ReconcileAssignments commands.ReconcileAssignmentsCommandHandler
	ExpireOffers         commands.ExpireOffersCommandHandler

	GetOrder         queries.GetOrderQueryHandler
	GetBranchOrders  queries.GetBranchOrdersQueryHandler
	GetPartnerOrders queries.GetPartnerOrdersQueryHandler
}

// Server implements ServerInterface. Each method builds one command or query
// from the request and the caller's actor and renders the result.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func (s *Server) respondOrder(c echo.Context, code int, o *order.Order, err error) error {
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(code, newOrderResponse(o))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	caller := actorFrom(c)
	customerID := caller.UserID
	if req.CustomerID != nil {
		id, err := kernel.UUIDFromBytes(req.CustomerID[:])
		if err != nil {
			return s.respondError(c, err)
		}
		customerID = id
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		item, err := it.toDomain()
		if err != nil {
			return s.respondError(c, err)
		}
		items = append(items, item)
	}
	shipping, err := req.ShippingAddress.toDomain()
	if err != nil {
		return s.respondError(c, err)
	}
	billing, err := req.BillingAddress.toDomain()
	if err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(caller, kernel.NewUUID(), customerID,
		items, shipping, billing, order.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusCreated, o, err)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(actorFrom(c), orderID)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context, orderID kernel.UUID) error {
	var req ReasonRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return s.respondError(c, err)
		}
	}

	cmd, err := commands.NewCancelOrderCommand(actorFrom(c), orderID, req.Reason)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(c echo.Context, orderID kernel.UUID) error {
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewUpdateOrderStatusCommand(actorFrom(c), orderID, status, req.Notes)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// AssignOrderToBranch handles POST /api/v1/orders/{orderId}/branch.
func (s *Server) AssignOrderToBranch(c echo.Context, orderID kernel.UUID) error {
	var req AssignBranchRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return s.respondError(c, err)
		}
	}

	origin, err := req.Origin.toDomain()
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewAssignOrderToBranchCommand(actorFrom(c), orderID, origin)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.AssignOrderToBranch.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// OfferToPartner handles POST /api/v1/orders/{orderId}/offer.
func (s *Server) OfferToPartner(c echo.Context, orderID kernel.UUID) error {
	var req PartnerRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	partnerID, err := kernel.UUIDFromBytes(req.PartnerID[:])
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewOfferToPartnerCommand(actorFrom(c), orderID, partnerID)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.OfferToPartner.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// AcceptAssignment handles POST /api/v1/orders/{orderId}/accept.
func (s *Server) AcceptAssignment(c echo.Context, orderID kernel.UUID) error {
	cmd, err := commands.NewAcceptAssignmentCommand(actorFrom(c), orderID)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.AcceptAssignment.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// RejectAssignment handles POST /api/v1/orders/{orderId}/reject.
func (s *Server) RejectAssignment(c echo.Context, orderID kernel.UUID) error {
	var req ReasonRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewRejectAssignmentCommand(actorFrom(c), orderID, req.Reason)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.RejectAssignment.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// ReassignPartner handles POST /api/v1/orders/{orderId}/reassign.
func (s *Server) ReassignPartner(c echo.Context, orderID kernel.UUID) error {
	var req PartnerRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	partnerID, err := kernel.UUIDFromBytes(req.PartnerID[:])
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewReassignPartnerCommand(actorFrom(c), orderID, partnerID)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.ReassignPartner.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// UpdateDeliveryStatus handles POST /api/v1/orders/{orderId}/delivery-status.
func (s *Server) UpdateDeliveryStatus(c echo.Context, orderID kernel.UUID) error {
	var req DeliveryStatusRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewUpdateDeliveryStatusCommand(actorFrom(c), orderID, status, req.Location, req.Notes)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.UpdateDeliveryStatus.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// RequestReturn handles POST /api/v1/orders/{orderId}/return.
func (s *Server) RequestReturn(c echo.Context, orderID kernel.UUID) error {
	var req ReturnRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	items := make([]order.ReturnedItem, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := kernel.UUIDFromBytes(it.ProductID[:])
		if err != nil {
			return s.respondError(c, err)
		}
		items = append(items, order.ReturnedItem{ProductID: productID, Quantity: it.Quantity})
	}
	cmd, err := commands.NewRequestReturnCommand(actorFrom(c), orderID, req.Reason, items)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.RequestReturn.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// SetReturnApproval handles POST /api/v1/orders/{orderId}/return-approval.
func (s *Server) SetReturnApproval(c echo.Context, orderID kernel.UUID) error {
	var req ReturnApprovalRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewSetReturnApprovalCommand(actorFrom(c), orderID, *req.Approved, req.Reason)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.SetReturnApproval.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// SetRefundStatus handles POST /api/v1/orders/{orderId}/refund.
func (s *Server) SetRefundStatus(c echo.Context, orderID kernel.UUID) error {
	var req RefundRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	status, err := order.ParseRefundStatus(req.Status)
	if err != nil {
		return s.respondError(c, err)
	}
	var amount *kernel.Money
	if req.Amount != nil {
		v, err := kernel.MoneyFromFloat(*req.Amount)
		if err != nil {
			return s.respondError(c, err)
		}
		amount = &v
	}
	cmd, err := commands.NewSetRefundStatusCommand(actorFrom(c), orderID, status, amount)
	if err != nil {
		return s.respondError(c, err)
	}

	o, err := s.h.SetRefundStatus.Handle(c.Request().Context(), cmd)
	return s.respondOrder(c, http.StatusOK, o, err)
}

// CreateBranch handles POST /api/v1/branches.
func (s *Server) CreateBranch(c echo.Context) error {
	var req CreateBranchRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	location, err := req.Location.toDomain()
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewCreateBranchCommand(actorFrom(c), kernel.NewUUID(), req.Name, *location)
	if err != nil {
		return s.respondError(c, err)
	}

	b, err := s.h.CreateBranch.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newBranchResponse(b))
}

// GetBranchOrders handles GET /api/v1/branches/{branchId}/orders.
func (s *Server) GetBranchOrders(c echo.Context, branchID kernel.UUID, params GetBranchOrdersParams) error {
	statuses := make([]order.Status, 0)
	if params.Status != nil {
		for _, raw := range *params.Status {
			status, err := order.ParseStatus(raw)
			if err != nil {
				return s.respondError(c, err)
			}
			statuses = append(statuses, status)
		}
	}
	var limit, offset int
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewGetBranchOrdersQuery(actorFrom(c), branchID, statuses, limit, offset)
	if err != nil {
		return s.respondError(c, err)
	}

	summaries, err := s.h.GetBranchOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newOrderSummaryResponses(summaries))
}

// AddPartnerToBranch handles POST /api/v1/branches/{branchId}/partners.
func (s *Server) AddPartnerToBranch(c echo.Context, branchID kernel.UUID) error {
	var req PartnerRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	partnerID, err := kernel.UUIDFromBytes(req.PartnerID[:])
	if err != nil {
		return s.respondError(c, err)
	}
	cmd, err := commands.NewAddPartnerToBranchCommand(actorFrom(c), branchID, partnerID)
	if err != nil {
		return s.respondError(c, err)
	}

	b, err := s.h.AddPartnerToBranch.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newBranchResponse(b))
}

// RegisterPartner handles POST /api/v1/partners.
func (s *Server) RegisterPartner(c echo.Context) error {
	var req RegisterPartnerRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewRegisterPartnerCommand(actorFrom(c), kernel.NewUUID(), req.Name)
	if err != nil {
		return s.respondError(c, err)
	}

	p, err := s.h.RegisterPartner.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newPartnerResponse(p))
}

// GetPartnerOrders handles GET /api/v1/partners/{partnerId}/orders.
func (s *Server) GetPartnerOrders(c echo.Context, partnerID kernel.UUID) error {
	query, err := queries.NewGetPartnerOrdersQuery(actorFrom(c), partnerID)
	if err != nil {
		return s.respondError(c, err)
	}

	summaries, err := s.h.GetPartnerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newOrderSummaryResponses(summaries))
}

// ReconcileAssignments handles POST /api/v1/admin/reconcile.
func (s *Server) ReconcileAssignments(c echo.Context) error {
	cmd, err := commands.NewReconcileAssignmentsCommand(actorFrom(c))
	if err != nil {
		return s.respondError(c, err)
	}

	report, err := s.h.ReconcileAssignments.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newReconcileResponse(report))
}

// ExpireOffers handles POST /api/v1/admin/expire-offers.
func (s *Server) ExpireOffers(c echo.Context) error {
	var req ExpireOffersRequest
	if err := bind(c, &req); err != nil {
		return s.respondError(c, err)
	}

	cmd, err := commands.NewExpireOffersCommand(actorFrom(c),
		time.Duration(req.TimeoutSeconds)*time.Second, req.BatchSize)
	if err != nil {
		return s.respondError(c, err)
	}

	expired, err := s.h.ExpireOffers.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, ExpireOffersResponse{Expired: expired})
}
