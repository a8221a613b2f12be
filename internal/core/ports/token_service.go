package ports

import "context"

// TokenService mints bearer tokens for the built-in bootstrap account.
// Identity-provider issued tokens go through the same verification path as
// locally minted ones.
type TokenService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}
