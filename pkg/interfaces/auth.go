package interfaces

import (
	"context"

	"scholarboard/pkg/types"
)

// TokenVerifier resolves an opaque credential token to an identity.
// Verify returns (nil, nil) for a token that is well-formed but no longer
// valid; transport or storage failures return an error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*types.Identity, error)
}
