// Package branch contains the BranchStation aggregate: a dispatch node with a
// location, the set of orders routed through it and its partner roster.
package branch

import (
	"errors"
	"slices"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var ErrBranchIsNotConstructed = errors.New("Branch must be created via NewBranch or RestoreBranch")

// Branch is a warehousing and dispatch node.
//
// Order and partner references are sets: adding an identifier twice keeps a
// single entry. A partner in the roster must name this branch in its own
// profile; AddPartner is only called together with DeliveryPartner.JoinBranch.
type Branch struct {
	id         kernel.UUID
	name       string
	location   kernel.GeoPoint
	orderIDs   []kernel.UUID
	partnerIDs []kernel.UUID

	isConstructed bool
}

// NewBranch creates an empty branch.
//
// Returns:
//   - error: joined validation failures for id, name and location
func NewBranch(id kernel.UUID, name string, location kernel.GeoPoint) (*Branch, error) {
	name = strings.TrimSpace(name)

	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err := location.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Branch{id: id, name: name, location: location, isConstructed: true}, nil
}

// RestoreBranch rebuilds a branch from persisted state.
func RestoreBranch(id kernel.UUID, name string, location kernel.GeoPoint, orderIDs, partnerIDs []kernel.UUID) (*Branch, error) {
	b, err := NewBranch(id, name, location)
	if err != nil {
		return nil, err
	}
	for _, o := range orderIDs {
		b.AddOrder(o)
	}
	for _, p := range partnerIDs {
		b.AddPartner(p)
	}
	return b, nil
}

func (b *Branch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBranchIsNotConstructed
	}
	return nil
}

func (b *Branch) ID() kernel.UUID {
	return b.id
}

func (b *Branch) Name() string {
	return b.name
}

func (b *Branch) Location() kernel.GeoPoint {
	return b.location
}

func (b *Branch) OrderIDs() []kernel.UUID {
	return slices.Clone(b.orderIDs)
}

func (b *Branch) PartnerIDs() []kernel.UUID {
	return slices.Clone(b.partnerIDs)
}

// AddOrder adds orderID to the branch's orders. It reports whether the set changed.
func (b *Branch) AddOrder(orderID kernel.UUID) bool {
	if b.HasOrder(orderID) {
		return false
	}
	b.orderIDs = append(b.orderIDs, orderID)
	return true
}

func (b *Branch) HasOrder(orderID kernel.UUID) bool {
	return slices.ContainsFunc(b.orderIDs, orderID.IsEqual)
}

// AddPartner adds partnerID to the roster. It reports whether the set changed.
func (b *Branch) AddPartner(partnerID kernel.UUID) bool {
	if b.HasPartner(partnerID) {
		return false
	}
	b.partnerIDs = append(b.partnerIDs, partnerID)
	return true
}

// RemovePartner drops partnerID from the roster. It reports whether the set changed.
func (b *Branch) RemovePartner(partnerID kernel.UUID) bool {
	n := len(b.partnerIDs)
	b.partnerIDs = slices.DeleteFunc(b.partnerIDs, partnerID.IsEqual)
	return len(b.partnerIDs) != n
}

func (b *Branch) HasPartner(partnerID kernel.UUID) bool {
	return slices.ContainsFunc(b.partnerIDs, partnerID.IsEqual)
}
