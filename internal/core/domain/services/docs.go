// Package services holds domain services: rules that span more than one
// aggregate of the logistics domain.
//
//   - BranchLocator picks the nearest branch for an order and binds them
//   - AssignmentNegotiator runs the offer/accept/reject handshake between an
//     order and a delivery partner, and credits earnings at terminal updates
//   - EarningsCalculator holds the partner fee schedule
//   - AccessPolicy decides whether an actor may perform an operation
//
// Services are stateless apart from configuration and never touch persistence.
package services
