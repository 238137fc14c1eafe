package http

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	CreateOrder(c echo.Context) error
	GetOrder(c echo.Context, orderID kernel.UUID) error
	CancelOrder(c echo.Context, orderID kernel.UUID) error
	UpdateOrderStatus(c echo.Context, orderID kernel.UUID) error
	AssignOrderToBranch(c echo.Context, orderID kernel.UUID) error
	OfferToPartner(c echo.Context, orderID kernel.UUID) error
	AcceptAssignment(c echo.Context, orderID kernel.UUID) error
	RejectAssignment(c echo.Context, orderID kernel.UUID) error
	ReassignPartner(c echo.Context, orderID kernel.UUID) error
	UpdateDeliveryStatus(c echo.Context, orderID kernel.UUID) error
	RequestReturn(c echo.Context, orderID kernel.UUID) error
	SetReturnApproval(c echo.Context, orderID kernel.UUID) error
	SetRefundStatus(c echo.Context, orderID kernel.UUID) error
	CreateBranch(c echo.Context) error
	GetBranchOrders(c echo.Context, branchID kernel.UUID, params GetBranchOrdersParams) error
	AddPartnerToBranch(c echo.Context, branchID kernel.UUID) error
	RegisterPartner(c echo.Context) error
	GetPartnerOrders(c echo.Context, partnerID kernel.UUID) error
	ReconcileAssignments(c echo.Context) error
	ExpireOffers(c echo.Context) error
}

// GetBranchOrdersParams are the query parameters of getBranchOrders.
type GetBranchOrdersParams struct {
	Status *[]string
	Limit  *int
	Offset *int
}

// ServerInterfaceWrapper binds path and query parameters before calling the server.
type ServerInterfaceWrapper struct {
	Handler    ServerInterface
	respondErr func(c echo.Context, err error) error
}

type pathOperation func(c echo.Context, id kernel.UUID) error

// withPathID binds the path parameter name as a UUID.
func (w *ServerInterfaceWrapper) withPathID(name string, op pathOperation) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := bindPathUUID(c, name)
		if err != nil {
			return w.respondErr(c, err)
		}
		return op(c, id)
	}
}

func bindPathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(raw[:])
}

func (w *ServerInterfaceWrapper) getBranchOrders(c echo.Context) error {
	branchID, err := bindPathUUID(c, "branchId")
	if err != nil {
		return w.respondErr(c, err)
	}

	var params GetBranchOrdersParams
	if err = runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &params.Status); err != nil {
		return w.respondErr(c, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &params.Limit); err != nil {
		return w.respondErr(c, errs.NewValueIsInvalidErrorWithCause("limit", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "offset", c.QueryParams(), &params.Offset); err != nil {
		return w.respondErr(c, errs.NewValueIsInvalidErrorWithCause("offset", err))
	}

	return w.Handler.GetBranchOrders(c, branchID, params)
}

var _ ServerInterface = (*Server)(nil)

// RegisterHandlers mounts every operation of the API on router.
func RegisterHandlers(router *echo.Group, s *Server) {
	w := &ServerInterfaceWrapper{Handler: s, respondErr: s.respondError}
	si := w.Handler

	router.POST("/orders", si.CreateOrder)
	router.GET("/orders/:orderId", w.withPathID("orderId", si.GetOrder))
	router.POST("/orders/:orderId/cancel", w.withPathID("orderId", si.CancelOrder))
	router.POST("/orders/:orderId/status", w.withPathID("orderId", si.UpdateOrderStatus))
	router.POST("/orders/:orderId/branch", w.withPathID("orderId", si.AssignOrderToBranch))
	router.POST("/orders/:orderId/offer", w.withPathID("orderId", si.OfferToPartner))
	router.POST("/orders/:orderId/accept", w.withPathID("orderId", si.AcceptAssignment))
	router.POST("/orders/:orderId/reject", w.withPathID("orderId", si.RejectAssignment))
	router.POST("/orders/:orderId/reassign", w.withPathID("orderId", si.ReassignPartner))
	router.POST("/orders/:orderId/delivery-status", w.withPathID("orderId", si.UpdateDeliveryStatus))
	router.POST("/orders/:orderId/return", w.withPathID("orderId", si.RequestReturn))
	router.POST("/orders/:orderId/return-approval", w.withPathID("orderId", si.SetReturnApproval))
	router.POST("/orders/:orderId/refund", w.withPathID("orderId", si.SetRefundStatus))

	router.POST("/branches", si.CreateBranch)
	router.GET("/branches/:branchId/orders", w.getBranchOrders)
	router.POST("/branches/:branchId/partners", w.withPathID("branchId", si.AddPartnerToBranch))

	router.POST("/partners", si.RegisterPartner)
	router.GET("/partners/:partnerId/orders", w.withPathID("partnerId", si.GetPartnerOrders))

	router.POST("/admin/reconcile", si.ReconcileAssignments)
	router.POST("/admin/expire-offers", si.ExpireOffers)
}
