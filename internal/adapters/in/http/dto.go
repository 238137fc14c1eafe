package http

import (
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Requests

type GeoPoint struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type Address struct {
	Name        string    `json:"name,omitempty"`
	Line1       string    `json:"line1,omitempty"`
	Line2       string    `json:"line2,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	Country     string    `json:"country,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" validate:"omitempty"`
}

type ItemRequest struct {
	ProductID       openapi_types.UUID `json:"productId" validate:"required"`
	Quantity        int                `json:"quantity" validate:"gte=1"`
	UnitPrice       float64            `json:"unitPrice" validate:"gte=0"`
	CustomizedPrice *float64           `json:"customizedPrice,omitempty" validate:"omitempty,gte=0"`
}

type CreateOrderRequest struct {
	CustomerID      *openapi_types.UUID `json:"customerId,omitempty"`
	Items           []ItemRequest       `json:"items" validate:"required,min=1,dive"`
	ShippingAddress Address             `json:"shippingAddress"`
	BillingAddress  Address             `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod" validate:"required,oneof=cod online"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type AssignBranchRequest struct {
	Origin *GeoPoint `json:"origin,omitempty" validate:"omitempty"`
}

type PartnerRequest struct {
	PartnerID openapi_types.UUID `json:"partnerId" validate:"required"`
}

type DeliveryStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type ReturnItemRequest struct {
	ProductID openapi_types.UUID `json:"productId" validate:"required"`
	Quantity  int                `json:"quantity" validate:"gte=1"`
}

type ReturnRequest struct {
	Reason string              `json:"reason" validate:"required"`
	Items  []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReturnApprovalRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Reason   string `json:"reason"`
}

type RefundRequest struct {
	Status string   `json:"status" validate:"required"`
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

type CreateBranchRequest struct {
	Name     string   `json:"name" validate:"required"`
	Location GeoPoint `json:"location"`
}

type RegisterPartnerRequest struct {
	Name string `json:"name" validate:"required"`
}

type ExpireOffersRequest struct {
	TimeoutSeconds int `json:"timeoutSeconds" validate:"gte=1"`
	BatchSize      int `json:"batchSize" validate:"gte=0"`
}

// Responses

type TrackingEventResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type EarningResponse struct {
	PartnerID  string    `json:"partnerId"`
	Amount     float64   `json:"amount"`
	CreditedAt time.Time `json:"creditedAt"`
}

type AssignmentResponse struct {
	PartnerID       string     `json:"partnerId,omitempty"`
	Status          string     `json:"status"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
	ResponseAt      *time.Time `json:"responseAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

type OrderResponse struct {
	ID                    string                  `json:"id"`
	Number                string                  `json:"number"`
	CustomerID            string                  `json:"customerId"`
	Status                string                  `json:"status"`
	Mode                  string                  `json:"mode"`
	ReturnStatus          string                  `json:"returnStatus,omitempty"`
	BranchID              string                  `json:"branchId,omitempty"`
	DeliveryPartnerID     string                  `json:"deliveryPartnerId,omitempty"`
	DeliveryPartnerStatus string                  `json:"deliveryPartnerStatus,omitempty"`
	Assignment            AssignmentResponse      `json:"assignment"`
	Total                 float64                 `json:"total"`
	PaymentMethod         string                  `json:"paymentMethod"`
	PaymentStatus         string                  `json:"paymentStatus"`
	RefundStatus          string                  `json:"refundStatus"`
	RefundAmount          float64                 `json:"refundAmount"`
	ReturnReason          string                  `json:"returnReason,omitempty"`
	TrackingDetails       []TrackingEventResponse `json:"trackingDetails"`
	ReturnTrackingDetails []TrackingEventResponse `json:"returnTrackingDetails"`
	DeliveryEarning       *EarningResponse        `json:"deliveryEarning,omitempty"`
	ReturnPickupEarning   *EarningResponse        `json:"returnPickupEarning,omitempty"`
	CreatedAt             time.Time               `json:"createdAt"`
	UpdatedAt             time.Time               `json:"updatedAt"`
	Version               int64                   `json:"version"`
}

type OrderSummaryResponse struct {
	ID                    string    `json:"id"`
	Number                string    `json:"number"`
	CustomerID            string    `json:"customerId"`
	Status                string    `json:"status"`
	Mode                  string    `json:"mode"`
	BranchID              string    `json:"branchId,omitempty"`
	DeliveryPartnerID     string    `json:"deliveryPartnerId,omitempty"`
	DeliveryPartnerStatus string    `json:"deliveryPartnerStatus,omitempty"`
	AssignmentStatus      string    `json:"assignmentStatus,omitempty"`
	Total                 float64   `json:"total"`
	UpdatedAt             time.Time `json:"updatedAt"`
	Version               int64     `json:"version"`
}

type GeoPointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type BranchResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Location   GeoPointResponse `json:"location"`
	OrderCount int              `json:"orderCount"`
	PartnerIDs []string         `json:"partnerIds"`
}

type PartnerResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	BranchID        string   `json:"branchId,omitempty"`
	Earnings        float64  `json:"earnings"`
	TotalEarnings   float64  `json:"totalEarnings"`
	CurrentOrderIDs []string `json:"currentOrderIds"`
}

type ReconcileResponse struct {
	PartnersChecked      int `json:"partnersChecked"`
	PartnersRepaired     int `json:"partnersRepaired"`
	BranchOrdersRelisted int `json:"branchOrdersRelisted"`
}

type ExpireOffersResponse struct {
	Expired int `json:"expired"`
}

// Mapping

func (p *GeoPoint) toDomain() (*kernel.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*p.Latitude, *p.Longitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (a Address) toDomain() (order.Address, error) {
	coords, err := a.Coordinates.toDomain()
	if err != nil {
		return order.Address{}, err
	}
	return order.Address{
		Name:        a.Name,
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		Phone:       a.Phone,
		Coordinates: coords,
	}, nil
}

func (r ItemRequest) toDomain() (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(r.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	unit, err := kernel.MoneyFromFloat(r.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	var custom *kernel.Money
	if r.CustomizedPrice != nil {
		v, err := kernel.MoneyFromFloat(*r.CustomizedPrice)
		if err != nil {
			return order.Item{}, err
		}
		custom = &v
	}
	return order.NewItem(productID, r.Quantity, unit, custom)
}

func idString(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func trackingResponse(log order.TrackingLog) []TrackingEventResponse {
	events := log.Events()
	out := make([]TrackingEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, TrackingEventResponse{
			Status:    string(e.Status),
			Timestamp: e.Timestamp,
			Location:  e.Location,
			Notes:     e.Notes,
		})
	}
	return out
}

func earningResponse(e *order.Earning) *EarningResponse {
	if e == nil {
		return nil
	}
	return &EarningResponse{
		PartnerID:  e.PartnerID.String(),
		Amount:     e.Amount.Float(),
		CreditedAt: e.CreditedAt,
	}
}

func newOrderResponse(o *order.Order) OrderResponse {
	a := o.Assignment()
	return OrderResponse{
		ID:                    o.ID().String(),
		Number:                o.Number(),
		CustomerID:            o.CustomerID().String(),
		Status:                string(o.Status()),
		Mode:                  string(o.Mode()),
		ReturnStatus:          string(o.ReturnStatus()),
		BranchID:              idString(o.BranchID()),
		DeliveryPartnerID:     idString(o.DeliveryPartnerID()),
		DeliveryPartnerStatus: string(o.DeliveryPartnerStatus()),
		Assignment: AssignmentResponse{
			PartnerID:       idString(a.PartnerID),
			Status:          string(a.Status),
			AssignedAt:      a.AssignedAt,
			ResponseAt:      a.ResponseAt,
			RejectionReason: a.RejectionReason,
		},
		Total:                 o.Total().Float(),
		PaymentMethod:         string(o.PaymentMethod()),
		PaymentStatus:         string(o.PaymentStatus()),
		RefundStatus:          string(o.RefundStatus()),
		RefundAmount:          o.RefundAmount().Float(),
		ReturnReason:          o.ReturnReason(),
		TrackingDetails:       trackingResponse(o.TrackingDetails()),
		ReturnTrackingDetails: trackingResponse(o.ReturnTrackingDetails()),
		DeliveryEarning:       earningResponse(o.DeliveryEarning()),
		ReturnPickupEarning:   earningResponse(o.ReturnPickupEarning()),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Version:               o.Version(),
	}
}

func newOrderSummaryResponses(summaries []queries.OrderSummary) []OrderSummaryResponse {
	out := make([]OrderSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, OrderSummaryResponse{
			ID:                    s.ID.String(),
			Number:                s.Number,
			CustomerID:            s.CustomerID.String(),
			Status:                string(s.Status),
			Mode:                  string(s.Mode),
			BranchID:              idString(s.BranchID),
			DeliveryPartnerID:     idString(s.DeliveryPartnerID),
			DeliveryPartnerStatus: string(s.DeliveryPartnerStatus),
			AssignmentStatus:      string(s.AssignmentStatus),
			Total:                 s.Total.Float(),
			UpdatedAt:             s.UpdatedAt,
			Version:               s.Version,
		})
	}
	return out
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func newBranchResponse(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:   b.ID().String(),
		Name: b.Name(),
		Location: GeoPointResponse{
			Latitude:  b.Location().Latitude(),
			Longitude: b.Location().Longitude(),
		},
		OrderCount: len(b.OrderIDs()),
		PartnerIDs: idStrings(b.PartnerIDs()),
	}
}

func newPartnerResponse(p *partner.DeliveryPartner) PartnerResponse {
	return PartnerResponse{
		ID:              p.ID().String(),
		Name:            p.Name(),
		BranchID:        idString(p.BranchID()),
		Earnings:        p.Earnings().Float(),
		TotalEarnings:   p.TotalEarnings().Float(),
		CurrentOrderIDs: idStrings(p.CurrentOrderIDs()),
	}
}

func newReconcileResponse(r commands.ReconcileReport) ReconcileResponse {
	return ReconcileResponse{
		PartnersChecked:      r.PartnersChecked,
		PartnersRepaired:     r.PartnersRepaired,
		BranchOrdersRelisted: r.BranchOrdersRelisted,
	}
}
