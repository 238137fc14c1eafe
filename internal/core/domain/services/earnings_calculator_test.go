package services_test

import (
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestEarningsCalculator_DeliveryFee(t *testing.T) {
	calc := services.NewEarningsCalculator(services.DefaultFeeSchedule())

	tests := []struct {
		name  string
		total kernel.Money
		want  kernel.Money
	}{
		{"zero total", 0, kernel.Units(30)},
		{"exactly threshold", kernel.Units(500), kernel.Units(30)},
		{"one cent above threshold", kernel.Units(500) + 1, kernel.Units(50)},
		{"large order", kernel.Units(800), kernel.Units(50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.DeliveryFee(tt.total))
		})
	}
}

func TestEarningsCalculator_ReturnPickupFee(t *testing.T) {
	t.Run("defaults to zero-total delivery fee", func(t *testing.T) {
		calc := services.NewEarningsCalculator(services.DefaultFeeSchedule())
		assert.Equal(t, kernel.Units(30), calc.ReturnPickupFee())
	})

	t.Run("zero schedule keeps the pickup fee and default delivery fees", func(t *testing.T) {
		fee := kernel.Units(25)
		calc := services.NewEarningsCalculator(services.FeeSchedule{ReturnPickupFee: &fee})
		assert.Equal(t, kernel.Units(25), calc.ReturnPickupFee())
		assert.Equal(t, kernel.Units(50), calc.DeliveryFee(kernel.Units(800)))
		assert.Equal(t, kernel.Units(30), services.EarningsCalculator{}.ReturnPickupFee())
	})

	t.Run("configured flat fee", func(t *testing.T) {
		schedule := services.DefaultFeeSchedule()
		fee := kernel.Units(40)
		schedule.ReturnPickupFee = &fee
		assert.Equal(t, kernel.Units(40), services.NewEarningsCalculator(schedule).ReturnPickupFee())
	})
}
