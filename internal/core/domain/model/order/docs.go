// Package order contains the Order aggregate: the state machine of the
// forward and return tracks, the delivery negotiation record, the
// append-only tracking logs and the return/refund fields.
//
// Every exported mutating method validates its predecessor state, writes the
// new state and appends exactly one tracking event to the log of the active
// track. Illegal requests are refused with errs.InvalidTransitionError and
// leave the order untouched.
package order
