package guard_test

import (
	"errors"
	"testing"

	"logistics/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTicketIsNotConstructed = errors.New("ticket must be created via newTicket")

// ticket embeds a guard the way commands and queries do.
type ticket struct {
	number string
	guard  guard.ConstructorGuard
}

func newTicket(number string) ticket {
	return ticket{number: number, guard: guard.NewConstructorGuard()}
}

func (t ticket) Validate() error {
	return t.guard.Validate(errTicketIsNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	t.Run("constructed", func(t *testing.T) {
		require.NoError(t, newTicket("ORD-1").Validate())
		require.NoError(t, guard.NewConstructorGuard().Validate(nil))
	})

	t.Run("zero value returns the given error", func(t *testing.T) {
		err := ticket{number: "ORD-1"}.Validate()
		require.ErrorIs(t, err, errTicketIsNotConstructed)
	})

	t.Run("zero value without error returns the default", func(t *testing.T) {
		var g guard.ConstructorGuard
		require.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
	})

	t.Run("copies keep the state", func(t *testing.T) {
		original := newTicket("ORD-2")
		copied := original
		require.NoError(t, copied.Validate())

		var zero ticket
		copiedZero := zero
		assert.Error(t, copiedZero.Validate())
	})
}
