package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		state   State
		surface SurfaceName
		actions []Action
	}{
		{StateInitializing, SurfaceLoading, []Action{}},
		{StateLoading, SurfaceLoading, []Action{}},
		{StateUnauthenticated, SurfaceLogin, []Action{ActionSignIn, ActionSignUp}},
		{StatePending, SurfacePendingApproval, []Action{ActionSignOut}},
		{StateAdmin, SurfaceAdminDashboard, []Action{ActionSignOut}},
		{StateEmployee, SurfaceEmployeeDashboard, []Action{ActionSignOut}},
		{StateUnresolved, SurfaceUnresolved, []Action{ActionRetry, ActionSignOut}},
		{State("bogus"), SurfaceLogin, []Action{ActionSignIn, ActionSignUp}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			s := Route(tt.state)
			assert.Equal(t, tt.surface, s.Name)
			assert.Equal(t, tt.actions, s.Actions)
		})
	}
}

func TestState_Predicates(t *testing.T) {
	assert.False(t, StateInitializing.IsSettled())
	assert.False(t, StateLoading.IsSettled())
	assert.True(t, StatePending.IsSettled())

	assert.True(t, StatePending.IsAuthenticated())
	assert.True(t, StateUnresolved.IsAuthenticated())
	assert.False(t, StateUnauthenticated.IsAuthenticated())
	assert.False(t, StateLoading.IsAuthenticated())
}

func TestDecisionContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrDecisionMissing)

	ctx := WithDecision(context.Background(), Decision{State: StateAdmin, UserID: "u1"})
	d, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAdmin, d.State)

	resp := NewDecisionResponse(d)
	assert.Equal(t, SurfaceAdminDashboard, resp.Surface.Name)
}
