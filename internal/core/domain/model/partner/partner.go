// Package partner contains the DeliveryPartner aggregate, the courier-side
// projection of a user: branch affiliation, the orders the partner currently
// holds and earnings counters.
package partner

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var ErrDeliveryPartnerIsNotConstructed = errors.New(
	"DeliveryPartner must be created via NewDeliveryPartner or RestoreDeliveryPartner")

// DeliveryPartner is a courier operating out of one branch.
//
// Invariants:
//   - currentOrderIDs is a set
//   - earnings and totalEarnings never decrease
type DeliveryPartner struct {
	id              kernel.UUID
	name            string
	branchID        *kernel.UUID
	currentOrderIDs []kernel.UUID
	earnings        kernel.Money
	totalEarnings   kernel.Money
	// unsavedCredit is what Credit added since the partner was loaded or saved.
	unsavedCredit kernel.Money

	isConstructed bool
}

// NewDeliveryPartner creates a partner that is not yet affiliated with a branch.
func NewDeliveryPartner(id kernel.UUID, name string) (*DeliveryPartner, error) {
	name = strings.TrimSpace(name)

	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &DeliveryPartner{id: id, name: name, isConstructed: true}, nil
}

// RestoreDeliveryPartner rebuilds a partner from persisted state.
func RestoreDeliveryPartner(
	id kernel.UUID,
	name string,
	branchID *kernel.UUID,
	currentOrderIDs []kernel.UUID,
	earnings, totalEarnings kernel.Money,
) (*DeliveryPartner, error) {
	p, err := NewDeliveryPartner(id, name)
	if err != nil {
		return nil, err
	}
	if earnings < 0 || totalEarnings < earnings {
		return nil, errs.NewValueIsOutOfRangeError("earnings", earnings.String(), "0", totalEarnings.String())
	}
	p.branchID = branchID
	for _, o := range currentOrderIDs {
		p.HoldOrder(o)
	}
	p.earnings = earnings
	p.totalEarnings = totalEarnings
	return p, nil
}

func (p *DeliveryPartner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrDeliveryPartnerIsNotConstructed
	}
	return nil
}

func (p *DeliveryPartner) ID() kernel.UUID {
	return p.id
}

func (p *DeliveryPartner) Name() string {
	return p.name
}

// BranchID is the branch the partner operates from, nil when unaffiliated.
func (p *DeliveryPartner) BranchID() *kernel.UUID {
	return p.branchID
}

func (p *DeliveryPartner) CurrentOrderIDs() []kernel.UUID {
	return slices.Clone(p.currentOrderIDs)
}

func (p *DeliveryPartner) Earnings() kernel.Money {
	return p.earnings
}

func (p *DeliveryPartner) TotalEarnings() kernel.Money {
	return p.totalEarnings
}

// BelongsTo reports whether the partner's profile names branchID.
func (p *DeliveryPartner) BelongsTo(branchID kernel.UUID) bool {
	return p.branchID != nil && p.branchID.IsEqual(branchID)
}

// JoinBranch affiliates the partner with branchID and returns the branch the
// partner left, if any. A partner holding orders cannot change branch.
func (p *DeliveryPartner) JoinBranch(branchID kernel.UUID) (*kernel.UUID, error) {
	if err := branchID.Validate(); err != nil {
		return nil, err
	}
	if p.BelongsTo(branchID) {
		return nil, nil
	}
	if len(p.currentOrderIDs) > 0 {
		return nil, errs.NewAlreadyAssignedError("delivery partner", p.id.String(),
			fmt.Sprintf("%d current orders", len(p.currentOrderIDs)))
	}
	previous := p.branchID
	p.branchID = &branchID
	return previous, nil
}

// HoldOrder adds orderID to the partner's current orders. It reports whether the set changed.
func (p *DeliveryPartner) HoldOrder(orderID kernel.UUID) bool {
	if p.Holds(orderID) {
		return false
	}
	p.currentOrderIDs = append(p.currentOrderIDs, orderID)
	return true
}

// ReleaseOrder removes orderID from the partner's current orders. It reports whether the set changed.
func (p *DeliveryPartner) ReleaseOrder(orderID kernel.UUID) bool {
	n := len(p.currentOrderIDs)
	p.currentOrderIDs = slices.DeleteFunc(p.currentOrderIDs, orderID.IsEqual)
	return len(p.currentOrderIDs) != n
}

func (p *DeliveryPartner) Holds(orderID kernel.UUID) bool {
	return slices.ContainsFunc(p.currentOrderIDs, orderID.IsEqual)
}

// ReplaceCurrentOrders overwrites the current orders with orderIDs. Used by
// read-repair, which recomputes the set from the orders themselves.
// It reports whether the set changed.
func (p *DeliveryPartner) ReplaceCurrentOrders(orderIDs []kernel.UUID) bool {
	next := make([]kernel.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		if !slices.ContainsFunc(next, id.IsEqual) {
			next = append(next, id)
		}
	}

	changed := len(next) != len(p.currentOrderIDs)
	for _, id := range next {
		if !p.Holds(id) {
			changed = true
			break
		}
	}
	p.currentOrderIDs = next
	return changed
}

// Credit adds a fee to both earnings counters.
func (p *DeliveryPartner) Credit(amount kernel.Money) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not positive", amount))
	}
	p.earnings += amount
	p.totalEarnings += amount
	p.unsavedCredit += amount
	return nil
}

// UnsavedCredit is the sum credited since the partner was restored or last
// marked saved. Repositories persist it as an increment.
func (p *DeliveryPartner) UnsavedCredit() kernel.Money {
	return p.unsavedCredit
}

// MarkCreditSaved is called by repositories once the credit is persisted.
func (p *DeliveryPartner) MarkCreditSaved() {
	p.unsavedCredit = 0
}
