// Package errs provides the error types shared by the logistics service.
//
// Every error type follows the same shape:
//   - a sentinel variable (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct with the details of the failure
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Validation errors (ValueIsRequiredError, ValueIsInvalidError,
// ValueIsOutOfRangeError) describe bad input. Workflow errors
// (InvalidTransitionError, UnauthorizedError, AlreadyAssignedError,
// AlreadyFinalError, NoBranchAvailableError) describe a request that is
// well-formed but not permitted by the current state of an order.
// ObjectNotFoundError and VersionIsInvalidError come from persistence.
package errs
