// Package auth adapts the claim sets carried by the supported
// authentication token kinds into one uniform view, so the identity
// resolver never branches on token type.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// Token exposes the claim capabilities the identity resolver relies on.
// Implementations exist per token kind; callers obtain one through
// FromPrincipal.
type Token interface {
	// StringClaim returns the named claim when present and a string.
	StringClaim(name string) (string, bool)
	// BoolClaim returns the named claim when present and a boolean.
	BoolClaim(name string) (bool, bool)
}

// OAuth2Principal is the attribute set of an authenticated OAuth2 login.
type OAuth2Principal struct {
	Attributes map[string]any
}

// FromPrincipal adapts a transport-level principal into a Token. This is
// the single place that looks at the concrete token kind; recognized kinds
// are bearer JWT claims and OAuth2 principals, anything else fails with
// domain.ErrUnsupportedToken.
func FromPrincipal(principal any) (Token, error) {
	switch p := principal.(type) {
	case jwt.MapClaims:
		return BearerClaims{claimSet(p)}, nil
	case OAuth2Principal:
		return OAuth2Claims{claimSet(p.Attributes)}, nil
	case *OAuth2Principal:
		return OAuth2Claims{claimSet(p.Attributes)}, nil
	default:
		return nil, domain.ErrUnsupportedToken
	}
}

// BearerClaims is the Token view of a verified bearer JWT claim map.
type BearerClaims struct{ claimSet }

// OAuth2Claims is the Token view of an OAuth2 principal's attributes.
type OAuth2Claims struct{ claimSet }

// claimSet holds the map access shared by both token kinds.
type claimSet map[string]any

func (c claimSet) StringClaim(name string) (string, bool) {
	v, ok := c[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func (c claimSet) BoolClaim(name string) (bool, bool) {
	v, ok := c[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
