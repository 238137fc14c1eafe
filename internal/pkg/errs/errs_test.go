package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("row locked")

	cases := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "not found",
			err:      errs.NewObjectNotFoundError("order", "7d1e"),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: 7d1e",
		},
		{
			name:     "not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("productId", "p-9", cause),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: param is: productId, ID is: p-9 (cause: row locked)",
		},
		{
			name:     "invalid",
			err:      errs.NewValueIsInvalidError("paymentMethod"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: paymentMethod",
		},
		{
			name:     "invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("role", cause),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: role (cause: row locked)",
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 0 is quantity, min value is 1, max value is 99",
		},
		{
			name:     "out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("latitude", 91.5, -90, 90, cause),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 91.5 is latitude, min value is -90, max value is 90 (cause: row locked)",
		},
		{
			name:     "required",
			err:      errs.NewValueIsRequiredError("reason"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: reason",
		},
		{
			name:     "required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("actor", cause),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: actor (cause: row locked)",
		},
		{
			name:     "version",
			err:      errs.NewVersionIsInvalidError("version", cause),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: version (cause: row locked)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.message, tc.err.Error())
			require.ErrorIs(t, tc.err, tc.sentinel)
			require.ErrorIs(t, fmt.Errorf("handler: %w", tc.err), tc.sentinel)
		})
	}
}

func TestOutOfRangeMessageStaysOnOneLine(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("reason", "too\nlong\r", 1, 500)
	assert.NotContains(t, err.Error(), "\n")
	assert.NotContains(t, err.Error(), "\r")
}

func TestErrorsAs(t *testing.T) {
	var joined error = errors.Join(
		errs.NewValueIsRequiredError("items"),
		errs.NewValueIsOutOfRangeError("quantity", -1, 1, 99),
	)

	var required *errs.ValueIsRequiredError
	require.ErrorAs(t, joined, &required)
	assert.Equal(t, "items", required.ParamName)

	var outOfRange *errs.ValueIsOutOfRangeError
	require.ErrorAs(t, joined, &outOfRange)
	assert.Equal(t, -1, outOfRange.Value)
	assert.Equal(t, 1, outOfRange.Min)
	assert.Equal(t, 99, outOfRange.Max)
}
