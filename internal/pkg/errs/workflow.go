package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for requests that are well-formed but not allowed by the
// current state of an order.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAlreadyAssigned   = errors.New("already assigned")
	ErrAlreadyFinal      = errors.New("already final")
	ErrNoBranchAvailable = errors.New("no branch available")
)

// InvalidTransitionError reports that Requested is not a legal successor of
// Current. Allowed lists the successors that would have been accepted.
type InvalidTransitionError struct {
	Current   string
	Requested string
	Allowed   []string
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(current, requested string, allowed []string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Allowed:   append([]string(nil), allowed...),
	}
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("%s: %s -> %s (allowed: %s)", ErrInvalidTransition, e.Current, e.Requested, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// UnauthorizedError reports that the actor lacks the role or the relationship
// to the resource required by an operation.
type UnauthorizedError struct {
	Actor  string
	Action string
	Reason string
}

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(actor, action, reason string) *UnauthorizedError {
	return &UnauthorizedError{
		Actor:  actor,
		Action: action,
		Reason: reason,
	}
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s may not %s (%s)", ErrUnauthorized, e.Actor, e.Action, e.Reason)
	}
	return fmt.Sprintf("%s: %s may not %s", ErrUnauthorized, e.Actor, e.Action)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AlreadyAssignedError reports that a resource already holds an assignment
// which a second assignment would overwrite.
type AlreadyAssignedError struct {
	ParamName string
	ID        any
	Holder    any
}

// NewAlreadyAssignedError creates an AlreadyAssignedError.
func NewAlreadyAssignedError(paramName string, id, holder any) *AlreadyAssignedError {
	return &AlreadyAssignedError{
		ParamName: paramName,
		ID:        id,
		Holder:    holder,
	}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: %s %v is held by %v", ErrAlreadyAssigned, e.ParamName, e.ID, e.Holder)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

// AlreadyFinalError reports that a resource has reached a terminal state.
type AlreadyFinalError struct {
	ParamName string
	State     string
}

// NewAlreadyFinalError creates an AlreadyFinalError.
func NewAlreadyFinalError(paramName, state string) *AlreadyFinalError {
	return &AlreadyFinalError{
		ParamName: paramName,
		State:     state,
	}
}

func (e *AlreadyFinalError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrAlreadyFinal, e.ParamName, e.State)
}

func (e *AlreadyFinalError) Unwrap() error {
	return ErrAlreadyFinal
}

// NoBranchAvailableError reports a geo match miss.
type NoBranchAvailableError struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// NewNoBranchAvailableError creates a NoBranchAvailableError.
func NewNoBranchAvailableError(latitude, longitude, radiusKm float64) *NoBranchAvailableError {
	return &NoBranchAvailableError{
		Latitude:  latitude,
		Longitude: longitude,
		RadiusKm:  radiusKm,
	}
}

func (e *NoBranchAvailableError) Error() string {
	return fmt.Sprintf("%s: no branch within %g km of (%g, %g)",
		ErrNoBranchAvailable, e.RadiusKm, e.Latitude, e.Longitude)
}

func (e *NoBranchAvailableError) Unwrap() error {
	return ErrNoBranchAvailable
}

// Kind names the class of err for metrics labels and transport mapping.
// Errors outside the package classify as "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrAlreadyAssigned):
		return "already_assigned"
	case errors.Is(err, ErrAlreadyFinal):
		return "already_final"
	case errors.Is(err, ErrNoBranchAvailable):
		return "no_branch_available"
	case errors.Is(err, ErrVersionIsInvalid):
		return "version_conflict"
	case errors.Is(err, ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return "validation"
	default:
		return "internal"
	}
}
