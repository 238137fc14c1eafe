// Package guard holds small invariant helpers shared by domain types and
// use case commands.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when it is called with a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. A zero value
// guard fails validation, so embedding one lets a type reject instances that
// were created with a composite literal and skipped their invariants.
//
// Example:
//
//	type OfferToPartnerCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c OfferToPartnerCommand) Validate() error {
//	    return c.guard.Validate(ErrOfferToPartnerCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard, otherwise validationError
// (or ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
