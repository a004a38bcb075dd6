package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

type userMap map[string]*user.User

func (m userMap) Get(_ context.Context, id string) (*user.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}

	u, ok := m[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return u, nil
}

func TestOperator(t *testing.T) {
	users := userMap{
		"root":    {ID: "root", Email: "root@example.com", IsAdmin: true},
		"member":  {ID: "member", Email: "member@example.com"},
		"retired": {ID: "retired", Email: "retired@example.com", IsAdmin: true, IsDisabled: true},
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "ActiveAdmin", id: "root"},
		{name: "Unset", id: "", wantErr: apperr.ErrValidation},
		{name: "UnknownAccount", id: "ghost", wantErr: apperr.ErrUnauthenticated},
		{name: "NotAdmin", id: "member", wantErr: apperr.ErrForbidden},
		{name: "DisabledAdmin", id: "retired", wantErr: apperr.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Operator(context.Background(), users, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
		})
	}
}

func TestOperator_LookupFailure(t *testing.T) {
	_, err := Operator(context.Background(), userMap{}, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrForbidden)
	assert.Contains(t, err.Error(), "connection reset")
}
