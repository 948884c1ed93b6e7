package chat

import (
	"context"
	"time"

	usermodel "ChatLink/module/user/model"
	"ChatLink/tools/errs"
	"ChatLink/tools/security"
)

// UserFinder is the slice of the user store the gate and dispatcher need.
type UserFinder interface {
	FindByID(ctx context.Context, userID string) (*usermodel.User, error)
}

// Gate verifies the credential carried by a connection attempt and turns
// it into an Identity, before the connection is admitted anywhere near the
// registry. It performs no writes.
type Gate struct {
	opts    security.Options
	users   UserFinder
	timeout time.Duration
}

func NewGate(opts security.Options, users UserFinder, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gate{opts: opts, users: users, timeout: timeout}
}

// Admit returns the verified identity, or a coded auth error. A token that
// verifies but names a user this system has never seen is still a
// rejection.
func (g *Gate) Admit(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, errs.ErrTokenInvalid.WithDetail("missing credential")
	}

	userID, err := security.Verify(g.opts, credential)
	if err != nil {
		return Identity{}, errs.ErrTokenInvalid.WithDetail(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	u, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return Identity{}, errs.ErrUserNotFound.WithDetail(userID)
	}
	return Identity{UserID: u.UserID, Name: u.Name}, nil
}
