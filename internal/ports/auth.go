package ports

import (
	"context"

	"github.com/confware/schedsync/internal/domain"
)

// Auth exposes the signed-in state of the current user.
type Auth interface {
	// WaitForSignedIn returns the current identity, prompting for sign-in
	// when necessary. Returns domain.ErrSignInDeclined when the user cancels.
	WaitForSignedIn(ctx context.Context, prompt string) (domain.Identity, error)

	// SignedIn reports whether a valid identity is available without
	// prompting.
	SignedIn() bool

	// SignOut discards the stored identity.
	SignOut() error
}
