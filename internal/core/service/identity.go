package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/core/auth"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// IdentityResolver turns a verified token's claim set into a user record.
// It performs no persistence: for an unseen identity it returns a transient
// user synthesized from the claims, and the caller decides whether to
// create it.
type IdentityResolver struct {
	repo           ports.UserRepository
	defaultLangKey string
	logger         zerolog.Logger
}

func NewIdentityResolver(repo ports.UserRepository, defaultLangKey string, logger zerolog.Logger) *IdentityResolver {
	if defaultLangKey == "" {
		defaultLangKey = "en"
	}
	return &IdentityResolver{repo: repo, defaultLangKey: defaultLangKey, logger: logger}
}

// Resolve returns the persisted user matching the token's login when one
// exists; the persisted state is authoritative and is not touched. For an
// unseen login a transient user is synthesized from the claims: no roles,
// not activated.
func (r *IdentityResolver) Resolve(ctx context.Context, token auth.Token) (*domain.User, error) {
	id, login := identityFromClaims(token)

	existing, err := r.repo.FindOneWithRolesByLogin(ctx, login)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user := r.synthesize(token, id, login)
	r.logger.Debug().Str("login", login).Msg("synthesized transient user from token claims")
	return user, nil
}

// identityFromClaims derives the storage id and the login business key.
// Resource-server tokens carry the id in "uid" with the login in "sub";
// otherwise "sub" is the id. A preferred_username claim wins as login, and
// when no login claim exists at all the id doubles as login. Logins are
// always lower-cased.
func identityFromClaims(token auth.Token) (id, login string) {
	sub, _ := token.StringClaim("sub")
	if uid, ok := token.StringClaim("uid"); ok {
		id = uid
		login = sub
	} else {
		id = sub
	}
	if preferred, ok := token.StringClaim("preferred_username"); ok {
		login = preferred
	}
	if login == "" {
		login = id
	}
	return id, strings.ToLower(login)
}

func (r *IdentityResolver) synthesize(token auth.Token, id, login string) *domain.User {
	user := &domain.User{ID: id, Login: login}

	if v, ok := token.StringClaim("given_name"); ok {
		user.FirstName = v
	}
	if v, ok := token.StringClaim("family_name"); ok {
		user.LastName = v
	}
	if v, ok := token.StringClaim("email"); ok {
		user.Email = strings.ToLower(v)
	} else if sub, ok := token.StringClaim("sub"); ok {
		user.Email = sub
	}
	user.LangKey = r.langKeyFromClaims(token)
	if v, ok := token.StringClaim("picture"); ok {
		user.ImageURL = v
	}
	return user
}

// langKeyFromClaims prefers an explicit langKey claim, then the locale
// claim with any territory suffix stripped, then the configured default.
func (r *IdentityResolver) langKeyFromClaims(token auth.Token) string {
	if v, ok := token.StringClaim("langKey"); ok {
		return v
	}
	locale, ok := token.StringClaim("locale")
	if !ok {
		return r.defaultLangKey
	}
	if i := strings.IndexAny(locale, "_-"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}
