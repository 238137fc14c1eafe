package order

import (
	"time"

	"logistics/internal/core/domain/model/kernel"
)

// EarningKind names one of the two earning tokens of an order.
type EarningKind string

const (
	EarningNone         EarningKind = ""
	EarningDelivery     EarningKind = "delivery"
	EarningReturnPickup EarningKind = "return_pickup"
)

// CreditEarning sets the earning token of the given kind. It reports false,
// and changes nothing, when the token is already set, so a retried terminal
// update never credits a partner twice.
func (o *Order) CreditEarning(kind EarningKind, partnerID kernel.UUID, amount kernel.Money, at time.Time) bool {
	var token **Earning
	switch kind {
	case EarningDelivery:
		token = &o.deliveryEarning
	case EarningReturnPickup:
		token = &o.returnPickupEarning
	default:
		return false
	}
	if *token != nil {
		return false
	}
	*token = &Earning{PartnerID: partnerID, Amount: amount, CreditedAt: at}
	return true
}
