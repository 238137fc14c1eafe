package actor_test

import (
	"testing"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	userID := kernel.NewUUID()
	branchID := kernel.NewUUID()

	a, err := actor.New(userID, actor.RoleBranchManager, &branchID)
	require.NoError(t, err)
	assert.True(t, a.Is(userID))
	assert.True(t, a.Manages(branchID))
	assert.False(t, a.Manages(kernel.NewUUID()))

	_, err = actor.New(userID, actor.RoleBranchManager, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = actor.New(userID, "root", nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = actor.New(kernel.UUID{}, actor.RoleCustomer, nil)
	require.Error(t, err)
}

func TestSystem(t *testing.T) {
	s := actor.System()
	assert.Equal(t, actor.RoleAdmin, s.Role)
	assert.False(t, s.Is(kernel.UUID{}))
	assert.Equal(t, "admin(system)", s.String())
}
