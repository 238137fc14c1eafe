// Package actor describes who issues a command: the authenticated user and
// the role the auth collaborator vouched for.
package actor

import (
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleBranchManager   Role = "branchManager"
	RoleDeliveryPartner Role = "deliveryPartner"
	RoleCustomer        Role = "customer"
)

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleBranchManager, RoleDeliveryPartner, RoleCustomer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// Actor is the authenticated caller of an operation. BranchID is set for
// branch managers and names the branch they manage.
type Actor struct {
	UserID   kernel.UUID
	Role     Role
	BranchID *kernel.UUID
}

// New validates and builds an Actor. Branch managers must name their branch.
func New(userID kernel.UUID, role Role, branchID *kernel.UUID) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if role == RoleBranchManager && branchID == nil {
		return Actor{}, errs.NewValueIsRequiredError("branchID")
	}
	return Actor{UserID: userID, Role: role, BranchID: branchID}, nil
}

// System is the actor used by scheduled jobs.
func System() Actor {
	return Actor{Role: RoleAdmin}
}

func (a Actor) String() string {
	if a.UserID.IsZero() {
		return string(a.Role) + "(system)"
	}
	return fmt.Sprintf("%s(%s)", a.Role, a.UserID)
}

// Is reports whether the actor is the user id.
func (a Actor) Is(id kernel.UUID) bool {
	return !a.UserID.IsZero() && a.UserID.IsEqual(id)
}

// Manages reports whether the actor manages branchID.
func (a Actor) Manages(branchID kernel.UUID) bool {
	return a.Role == RoleBranchManager && a.BranchID != nil && a.BranchID.IsEqual(branchID)
}
