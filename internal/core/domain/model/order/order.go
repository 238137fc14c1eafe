package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is the aggregate root of the fulfillment core. It owns the canonical
// status of both tracks, the negotiation record with the delivery partner,
// both tracking logs and the return/refund fields.
//
// Invariants kept by every method:
//   - status changes only through a legal transition, each appending exactly
//     one event to the log of the active track
//   - while the assignment is offered or accepted, deliveryPartnerID equals
//     the assignment's partner
//   - each earning token is set at most once
//
// An Order is not safe for concurrent use; the persistence layer serializes
// writers per order.
type Order struct {
	id         kernel.UUID
	number     string
	customerID kernel.UUID

	status Status
	mode   Mode

	items           []Item
	shippingAddress Address
	billingAddress  Address

	branchID              *kernel.UUID
	deliveryPartnerID     *kernel.UUID
	deliveryPartnerStatus DeliveryPartnerStatus
	assignment            DeliveryAssignment

	tracking       TrackingLog
	returnTracking TrackingLog

	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	isReturnRequested bool
	returnReason      string
	returnedItems     []ReturnedItem
	refundStatus      RefundStatus
	refundAmount      kernel.Money
	refundProcessedAt *time.Time

	deliveryEarning     *Earning
	returnPickupEarning *Earning

	createdAt time.Time
	updatedAt time.Time
	version   int64

	isConstructed bool
}

// Earning records a credited partner fee. Its presence on an order is the
// idempotency token of the earnings engine.
type Earning struct {
	PartnerID  kernel.UUID
	Amount     kernel.Money
	CreditedAt time.Time
}

// NewOrder places a new order. Cash-on-delivery orders start in confirm,
// online-paid orders in pending. The first tracking event records the placement.
//
// Parameters:
//   - id: order identifier
//   - customerID: the ordering customer
//   - items: at least one purchased line
//   - shipping, billing: postal addresses
//   - method: cod or online
//   - at: placement time
//
// Returns:
//   - *Order: the placed order with a generated order number
//   - error: all validation failures joined
//
// Example:
//
//	item, _ := order.NewItem(productID, 2, kernel.Units(250), nil)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item},
//	    shipping, billing, order.PaymentCOD, time.Now())
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	shipping Address,
	billing Address,
	method PaymentMethod,
	at time.Time,
) (*Order, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := customerID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	if err := method.Validate(); err != nil {
		errList = append(errList, err)
	}
	if at.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("placedAt"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	status := StatusPending
	if method == PaymentCOD {
		status = StatusConfirm
	}

	o := &Order{
		id:              id,
		number:          GenerateNumber(id, at),
		customerID:      customerID,
		status:          status,
		mode:            ModeForward,
		items:           append([]Item(nil), items...),
		shippingAddress: shipping,
		billingAddress:  billing,
		assignment:      newPendingAssignment(),
		paymentMethod:   method,
		paymentStatus:   PaymentPending,
		refundStatus:    RefundNone,
		createdAt:       at,
		updatedAt:       at,
		isConstructed:   true,
	}
	o.tracking = o.tracking.append(TrackingEvent{Status: status, Timestamp: at, Notes: "order placed"})
	return o, nil
}

// GenerateNumber builds the human readable order number ORD-YYYYMMDD-XXXXXXXX
// from the placement date and the first 8 hex digits of the identifier.
func GenerateNumber(id kernel.UUID, at time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(hex[:8]))
}

// Snapshot is the full state of an order as exchanged with persistence.
type Snapshot struct {
	ID                    kernel.UUID
	Number                string
	CustomerID            kernel.UUID
	Status                Status
	Mode                  Mode
	Items                 []Item
	ShippingAddress       Address
	BillingAddress        Address
	BranchID              *kernel.UUID
	DeliveryPartnerID     *kernel.UUID
	DeliveryPartnerStatus DeliveryPartnerStatus
	Assignment            DeliveryAssignment
	TrackingDetails       []TrackingEvent
	ReturnTrackingDetails []TrackingEvent
	PaymentMethod         PaymentMethod
	PaymentStatus         PaymentStatus
	IsReturnRequested     bool
	ReturnReason          string
	ReturnedItems         []ReturnedItem
	RefundStatus          RefundStatus
	RefundAmount          kernel.Money
	RefundProcessedAt     *time.Time
	DeliveryEarning       *Earning
	ReturnPickupEarning   *Earning
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Version               int64
}

// RestoreOrder rebuilds an order from persisted state. Enumerations are
// validated; transition history is trusted.
func RestoreOrder(s Snapshot) (*Order, error) {
	var errList []error
	for _, err := range []error{
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.Status.Validate(),
		s.Mode.Validate(),
		s.DeliveryPartnerStatus.Validate(),
		s.Assignment.Status.Validate(),
		s.PaymentMethod.Validate(),
		s.PaymentStatus.Validate(),
		s.RefundStatus.Validate(),
	} {
		if err != nil {
			errList = append(errList, err)
		}
	}
	if s.Number == "" {
		errList = append(errList, errs.NewValueIsRequiredError("number"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Order{
		id:                    s.ID,
		number:                s.Number,
		customerID:            s.CustomerID,
		status:                s.Status,
		mode:                  s.Mode,
		items:                 append([]Item(nil), s.Items...),
		shippingAddress:       s.ShippingAddress,
		billingAddress:        s.BillingAddress,
		branchID:              s.BranchID,
		deliveryPartnerID:     s.DeliveryPartnerID,
		deliveryPartnerStatus: s.DeliveryPartnerStatus,
		assignment:            s.Assignment,
		tracking:              NewTrackingLog(s.TrackingDetails),
		returnTracking:        NewTrackingLog(s.ReturnTrackingDetails),
		paymentMethod:         s.PaymentMethod,
		paymentStatus:         s.PaymentStatus,
		isReturnRequested:     s.IsReturnRequested,
		returnReason:          s.ReturnReason,
		returnedItems:         append([]ReturnedItem(nil), s.ReturnedItems...),
		refundStatus:          s.RefundStatus,
		refundAmount:          s.RefundAmount,
		refundProcessedAt:     s.RefundProcessedAt,
		deliveryEarning:       s.DeliveryEarning,
		returnPickupEarning:   s.ReturnPickupEarning,
		createdAt:             s.CreatedAt,
		updatedAt:             s.UpdatedAt,
		version:               s.Version,
		isConstructed:         true,
	}, nil
}

// Snapshot returns a copy of the order state for persistence and read models.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                    o.id,
		Number:                o.number,
		CustomerID:            o.customerID,
		Status:                o.status,
		Mode:                  o.mode,
		Items:                 o.Items(),
		ShippingAddress:       o.shippingAddress,
		BillingAddress:        o.billingAddress,
		BranchID:              o.branchID,
		DeliveryPartnerID:     o.deliveryPartnerID,
		DeliveryPartnerStatus: o.deliveryPartnerStatus,
		Assignment:            o.assignment,
		TrackingDetails:       o.tracking.Events(),
		ReturnTrackingDetails: o.returnTracking.Events(),
		PaymentMethod:         o.paymentMethod,
		PaymentStatus:         o.paymentStatus,
		IsReturnRequested:     o.isReturnRequested,
		ReturnReason:          o.returnReason,
		ReturnedItems:         o.ReturnedItems(),
		RefundStatus:          o.refundStatus,
		RefundAmount:          o.refundAmount,
		RefundProcessedAt:     o.refundProcessedAt,
		DeliveryEarning:       o.deliveryEarning,
		ReturnPickupEarning:   o.returnPickupEarning,
		CreatedAt:             o.createdAt,
		UpdatedAt:             o.updatedAt,
		Version:               o.version,
	}
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Mode() Mode {
	return o.mode
}

func (o *Order) ShippingAddress() Address {
	return o.shippingAddress
}

func (o *Order) BillingAddress() Address {
	return o.billingAddress
}

func (o *Order) BranchID() *kernel.UUID {
	return o.branchID
}

func (o *Order) DeliveryPartnerID() *kernel.UUID {
	return o.deliveryPartnerID
}

func (o *Order) DeliveryPartnerStatus() DeliveryPartnerStatus {
	return o.deliveryPartnerStatus
}

func (o *Order) Assignment() DeliveryAssignment {
	return o.assignment
}

func (o *Order) TrackingDetails() TrackingLog {
	return o.tracking
}

func (o *Order) ReturnTrackingDetails() TrackingLog {
	return o.returnTracking
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) IsReturnRequested() bool {
	return o.isReturnRequested
}

func (o *Order) ReturnReason() string {
	return o.returnReason
}

func (o *Order) RefundStatus() RefundStatus {
	return o.refundStatus
}

func (o *Order) RefundAmount() kernel.Money {
	return o.refundAmount
}

func (o *Order) RefundProcessedAt() *time.Time {
	return o.refundProcessedAt
}

func (o *Order) DeliveryEarning() *Earning {
	return o.deliveryEarning
}

func (o *Order) ReturnPickupEarning() *Earning {
	return o.returnPickupEarning
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the optimistic concurrency counter the order was loaded with.
func (o *Order) Version() int64 { return o.version }

// Items returns a copy of the purchased lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// ReturnedItems returns a copy of the lines of the return request.
func (o *Order) ReturnedItems() []ReturnedItem {
	return append([]ReturnedItem(nil), o.returnedItems...)
}

// Total is the sum of all line subtotals.
func (o *Order) Total() kernel.Money {
	var total kernel.Money
	for _, it := range o.items {
		total += it.Subtotal()
	}
	return total
}

// ReturnStatus is the return-track projection of Status. It is
// ReturnStatusNone while the order is in ModeForward.
func (o *Order) ReturnStatus() ReturnStatus {
	if o.mode != ModeReturn {
		return ReturnStatusNone
	}
	return projectReturnStatus(o.status)
}

// ActiveLog returns the tracking log of the active track.
func (o *Order) ActiveLog() TrackingLog {
	if o.mode == ModeReturn {
		return o.returnTracking
	}
	return o.tracking
}

// IsHeldBy reports whether partnerID currently holds the order: it is the
// order's partner and the partner's part of the job is not over.
func (o *Order) IsHeldBy(partnerID kernel.UUID) bool {
	return o.deliveryPartnerID != nil &&
		o.deliveryPartnerID.IsEqual(partnerID) &&
		o.deliveryPartnerStatus.IsActive()
}

// MarkPersisted advances the version after a successful save.
func (o *Order) MarkPersisted(version int64) {
	o.version = version
}

// transition writes next to status and appends one event to the active log.
// Callers check legality first.
func (o *Order) transition(next Status, at time.Time, location, notes string) {
	o.status = next
	o.record(next, at, location, notes)
}

// record appends one event to the active log without changing the status.
func (o *Order) record(status Status, at time.Time, location, notes string) {
	event := TrackingEvent{Status: status, Timestamp: at, Location: location, Notes: notes}
	if o.mode == ModeReturn {
		o.returnTracking = o.returnTracking.append(event)
	} else {
		o.tracking = o.tracking.append(event)
	}
	o.updatedAt = at
}
