package orderrepo

import (
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table. Scalar fields the workflow filters on are
// columns; nested values (lines, addresses, tracking logs) are jsonb.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Status     string    `gorm:"type:varchar(32);index;not null"`
	Mode       string    `gorm:"type:varchar(16);not null"`

	Items           []ItemDTO     `gorm:"serializer:json;type:jsonb;not null"`
	ShippingAddress AddressDTO    `gorm:"serializer:json;type:jsonb;not null"`
	BillingAddress  AddressDTO    `gorm:"serializer:json;type:jsonb;not null"`
	TotalMinor      int64         `gorm:"not null"`
	BranchID        *uuid.UUID    `gorm:"type:uuid;index"`
	PartnerID       *uuid.UUID    `gorm:"column:delivery_partner_id;type:uuid;index"`
	PartnerStatus   string        `gorm:"column:delivery_partner_status;type:varchar(32)"`
	Assignment      AssignmentDTO `gorm:"embedded;embeddedPrefix:assignment_"`

	TrackingDetails       []TrackingEventDTO `gorm:"serializer:json;type:jsonb;not null"`
	ReturnTrackingDetails []TrackingEventDTO `gorm:"serializer:json;type:jsonb;not null"`

	PaymentMethod string `gorm:"type:varchar(16);not null"`
	PaymentStatus string `gorm:"type:varchar(16);not null"`

	IsReturnRequested bool
	ReturnReason      string
	ReturnedItems     []ReturnedItemDTO `gorm:"serializer:json;type:jsonb"`
	RefundStatus      string            `gorm:"type:varchar(16);not null"`
	RefundAmountMinor int64
	RefundProcessedAt *time.Time

	DeliveryEarning     *EarningDTO `gorm:"serializer:json;type:jsonb"`
	ReturnPickupEarning *EarningDTO `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null"`
	Version   int64     `gorm:"not null"`
}

// TableName specifies the table name for GORM.
func (OrderDTO) TableName() string {
	return "orders"
}

// AssignmentDTO is the negotiation record, stored as assignment_* columns so
// the offer-expiry sweep can use an index.
type AssignmentDTO struct {
	PartnerID       *uuid.UUID `gorm:"type:uuid"`
	Status          string     `gorm:"type:varchar(16);index;not null"`
	AssignedAt      *time.Time `gorm:"index"`
	ResponseAt      *time.Time
	RejectionReason string
}

type ItemDTO struct {
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	UnitPrice       int64     `json:"unit_price"`
	CustomizedPrice *int64    `json:"customized_price,omitempty"`
}

type ReturnedItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type AddressDTO struct {
	Name        string    `json:"name,omitempty"`
	Line1       string    `json:"line1,omitempty"`
	Line2       string    `json:"line2,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `json:"country,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

type TrackingEventDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type EarningDTO struct {
	PartnerID  uuid.UUID `json:"partner_id"`
	Amount     int64     `json:"amount"`
	CreditedAt time.Time `json:"credited_at"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.Snapshot()

	items := make([]ItemDTO, 0, len(s.Items))
	for _, i := range s.Items {
		dto := ItemDTO{ProductID: i.ProductID.Bytes(), Quantity: i.Quantity, UnitPrice: int64(i.UnitPrice)}
		if i.CustomizedPrice != nil {
			price := int64(*i.CustomizedPrice)
			dto.CustomizedPrice = &price
		}
		items = append(items, dto)
	}

	returned := make([]ReturnedItemDTO, 0, len(s.ReturnedItems))
	for _, i := range s.ReturnedItems {
		returned = append(returned, ReturnedItemDTO{ProductID: i.ProductID.Bytes(), Quantity: i.Quantity})
	}

	return OrderDTO{
		ID:            s.ID.Bytes(),
		Number:        s.Number,
		CustomerID:    s.CustomerID.Bytes(),
		Status:        string(s.Status),
		Mode:          string(s.Mode),
		Items:         items,
		TotalMinor:    int64(aggregate.Total()),
		BranchID:      uuidPtr(s.BranchID),
		PartnerID:     uuidPtr(s.DeliveryPartnerID),
		PartnerStatus: string(s.DeliveryPartnerStatus),
		Assignment: AssignmentDTO{
			PartnerID:       uuidPtr(s.Assignment.PartnerID),
			Status:          string(s.Assignment.Status),
			AssignedAt:      s.Assignment.AssignedAt,
			ResponseAt:      s.Assignment.ResponseAt,
			RejectionReason: s.Assignment.RejectionReason,
		},
		ShippingAddress:       addressFromDomain(s.ShippingAddress),
		BillingAddress:        addressFromDomain(s.BillingAddress),
		TrackingDetails:       trackingFromDomain(s.TrackingDetails),
		ReturnTrackingDetails: trackingFromDomain(s.ReturnTrackingDetails),
		PaymentMethod:         string(s.PaymentMethod),
		PaymentStatus:         string(s.PaymentStatus),
		IsReturnRequested:     s.IsReturnRequested,
		ReturnReason:          s.ReturnReason,
		ReturnedItems:         returned,
		RefundStatus:          string(s.RefundStatus),
		RefundAmountMinor:     int64(s.RefundAmount),
		RefundProcessedAt:     s.RefundProcessedAt,
		DeliveryEarning:       earningFromDomain(s.DeliveryEarning),
		ReturnPickupEarning:   earningFromDomain(s.ReturnPickupEarning),
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
		Version:               s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		productID, err := kernel.UUIDFromBytes(i.ProductID[:])
		if err != nil {
			return nil, err
		}
		item := order.Item{ProductID: productID, Quantity: i.Quantity, UnitPrice: kernel.Money(i.UnitPrice)}
		if i.CustomizedPrice != nil {
			price := kernel.Money(*i.CustomizedPrice)
			item.CustomizedPrice = &price
		}
		items = append(items, item)
	}

	returned := make([]order.ReturnedItem, 0, len(dto.ReturnedItems))
	for _, i := range dto.ReturnedItems {
		productID, err := kernel.UUIDFromBytes(i.ProductID[:])
		if err != nil {
			return nil, err
		}
		returned = append(returned, order.ReturnedItem{ProductID: productID, Quantity: i.Quantity})
	}

	shipping, err := addressToDomain(dto.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billing, err := addressToDomain(dto.BillingAddress)
	if err != nil {
		return nil, err
	}
	branchID, err := kernelPtr(dto.BranchID)
	if err != nil {
		return nil, err
	}
	partnerID, err := kernelPtr(dto.PartnerID)
	if err != nil {
		return nil, err
	}
	assignedTo, err := kernelPtr(dto.Assignment.PartnerID)
	if err != nil {
		return nil, err
	}
	deliveryEarning, err := earningToDomain(dto.DeliveryEarning)
	if err != nil {
		return nil, err
	}
	pickupEarning, err := earningToDomain(dto.ReturnPickupEarning)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    id,
		Number:                dto.Number,
		CustomerID:            customerID,
		Status:                order.Status(dto.Status),
		Mode:                  order.Mode(dto.Mode),
		Items:                 items,
		ShippingAddress:       shipping,
		BillingAddress:        billing,
		BranchID:              branchID,
		DeliveryPartnerID:     partnerID,
		DeliveryPartnerStatus: order.DeliveryPartnerStatus(dto.PartnerStatus),
		Assignment: order.DeliveryAssignment{
			PartnerID:       assignedTo,
			Status:          order.AssignmentStatus(dto.Assignment.Status),
			AssignedAt:      utcPtr(dto.Assignment.AssignedAt),
			ResponseAt:      utcPtr(dto.Assignment.ResponseAt),
			RejectionReason: dto.Assignment.RejectionReason,
		},
		TrackingDetails:       trackingToDomain(dto.TrackingDetails),
		ReturnTrackingDetails: trackingToDomain(dto.ReturnTrackingDetails),
		PaymentMethod:         order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:         order.PaymentStatus(dto.PaymentStatus),
		IsReturnRequested:     dto.IsReturnRequested,
		ReturnReason:          dto.ReturnReason,
		ReturnedItems:         returned,
		RefundStatus:          order.RefundStatus(dto.RefundStatus),
		RefundAmount:          kernel.Money(dto.RefundAmountMinor),
		RefundProcessedAt:     utcPtr(dto.RefundProcessedAt),
		DeliveryEarning:       deliveryEarning,
		ReturnPickupEarning:   pickupEarning,
		CreatedAt:             dto.CreatedAt.UTC(),
		UpdatedAt:             dto.UpdatedAt.UTC(),
		Version:               dto.Version,
	})
}

func addressFromDomain(a order.Address) AddressDTO {
	dto := AddressDTO{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
	if a.Coordinates != nil {
		dto.Coordinates = a.Coordinates.Pair()
	}
	return dto
}

func addressToDomain(dto AddressDTO) (order.Address, error) {
	a := order.Address{
		Name:       dto.Name,
		Line1:      dto.Line1,
		Line2:      dto.Line2,
		City:       dto.City,
		State:      dto.State,
		PostalCode: dto.PostalCode,
		Country:    dto.Country,
		Phone:      dto.Phone,
	}
	if len(dto.Coordinates) > 0 {
		point, err := kernel.GeoPointFromPair(dto.Coordinates)
		if err != nil {
			return order.Address{}, err
		}
		a.Coordinates = &point
	}
	return a, nil
}

func trackingFromDomain(events []order.TrackingEvent) []TrackingEventDTO {
	out := make([]TrackingEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, TrackingEventDTO{
			Status:    string(e.Status),
			Timestamp: e.Timestamp,
			Location:  e.Location,
			Notes:     e.Notes,
		})
	}
	return out
}

func trackingToDomain(events []TrackingEventDTO) []order.TrackingEvent {
	out := make([]order.TrackingEvent, 0, len(events))
	for _, e := range events {
		out = append(out, order.TrackingEvent{
			Status:    order.Status(e.Status),
			Timestamp: e.Timestamp.UTC(),
			Location:  e.Location,
			Notes:     e.Notes,
		})
	}
	return out
}

func earningFromDomain(e *order.Earning) *EarningDTO {
	if e == nil {
		return nil
	}
	return &EarningDTO{PartnerID: e.PartnerID.Bytes(), Amount: int64(e.Amount), CreditedAt: e.CreditedAt}
}

func earningToDomain(dto *EarningDTO) (*order.Earning, error) {
	if dto == nil {
		return nil, nil
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	return &order.Earning{PartnerID: partnerID, Amount: kernel.Money(dto.Amount), CreditedAt: dto.CreditedAt.UTC()}, nil
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.Bytes()
	return &v
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	v, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
