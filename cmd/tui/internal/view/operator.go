package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

type UserGetter interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// Operator loads the account the console acts as. It must exist, hold the
// admin flag and not be disabled, the same bar the HTTP admin routes apply.
func Operator(ctx context.Context, users UserGetter, id string) (*user.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: ADMIN_CONSOLE_ID must name the admin the console acts as", apperr.ErrValidation)
	}

	u, err := users.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: console admin %q does not exist", apperr.ErrUnauthenticated, id)
	}

	if err != nil {
		return nil, fmt.Errorf("load console admin: %w", err)
	}

	if !u.IsAdmin || u.IsDisabled {
		return nil, fmt.Errorf("%w: %q is not an active admin", apperr.ErrForbidden, id)
	}

	return u, nil
}
