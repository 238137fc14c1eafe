package services

import (
	"logistics/internal/core/domain/model/kernel"
)

// FeeSchedule configures partner compensation.
type FeeSchedule struct {
	// Threshold above which HighFee applies to a delivery.
	Threshold kernel.Money
	HighFee   kernel.Money
	LowFee    kernel.Money
	// ReturnPickupFee is the flat fee of a return pickup. Nil means the
	// delivery schedule applied to a zero total.
	ReturnPickupFee *kernel.Money
}

// DefaultFeeSchedule pays 50 for orders above 500 and 30 otherwise.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Threshold: kernel.Units(500),
		HighFee:   kernel.Units(50),
		LowFee:    kernel.Units(30),
	}
}

func (s FeeSchedule) isZero() bool {
	return s.Threshold == 0 && s.HighFee == 0 && s.LowFee == 0
}

// EarningsCalculator computes partner fees. It is pure: crediting and the
// once-only guard live on the aggregates. A schedule without delivery fees
// falls back to DefaultFeeSchedule, keeping only its ReturnPickupFee.
type EarningsCalculator struct {
	schedule FeeSchedule
}

func NewEarningsCalculator(schedule FeeSchedule) EarningsCalculator {
	if schedule.isZero() {
		pickup := schedule.ReturnPickupFee
		schedule = DefaultFeeSchedule()
		schedule.ReturnPickupFee = pickup
	}
	return EarningsCalculator{schedule: schedule}
}

// DeliveryFee is HighFee when total exceeds Threshold, LowFee otherwise.
func (c EarningsCalculator) DeliveryFee(total kernel.Money) kernel.Money {
	s := c.effective()
	if total > s.Threshold {
		return s.HighFee
	}
	return s.LowFee
}

func (c EarningsCalculator) ReturnPickupFee() kernel.Money {
	if c.schedule.ReturnPickupFee != nil {
		return *c.schedule.ReturnPickupFee
	}
	return c.DeliveryFee(0)
}

func (c EarningsCalculator) effective() FeeSchedule {
	if c.schedule.isZero() {
		return DefaultFeeSchedule()
	}
	return c.schedule
}
