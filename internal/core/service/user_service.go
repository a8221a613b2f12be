package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/api/metrics"
	"github.com/theagilemonkeys/crm-api/internal/core/auth"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

const systemAccount = "system"

// UserOptions carries the policy knobs of the user service.
type UserOptions struct {
	// DefaultLangKey is applied when no language key is provided.
	DefaultLangKey string
	// AnonymousLogin is excluded from listings.
	AnonymousLogin string
	// AllowLoginOverwrite enables the legacy update path that lets an
	// admin update replace the login business key. Off by default.
	AllowLoginOverwrite bool
}

// UserService implements user CRUD with strict cache invalidation: every
// mutation evicts both projection keys with their pre-mutation values
// before the write, and again with the new values when a key changed. An
// eviction failure aborts the mutation; a false cache miss after an
// aborted write is harmless.
type UserService struct {
	repo     ports.UserRepository
	byLogin  ports.UserCache
	byEmail  ports.UserCache
	resolver *IdentityResolver
	opts     UserOptions
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, byLogin, byEmail ports.UserCache,
	resolver *IdentityResolver, opts UserOptions, logger zerolog.Logger) *UserService {

	if opts.DefaultLangKey == "" {
		opts.DefaultLangKey = "en"
	}
	if opts.AnonymousLogin == "" {
		opts.AnonymousLogin = "anonymoususer"
	}
	return &UserService{
		repo:     repo,
		byLogin:  byLogin,
		byEmail:  byEmail,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// Create persists a new user. Login and email are lower-cased and checked
// for uniqueness up front; the store's unique indexes remain the final
// authority and surface the same conflict errors on a race.
func (s *UserService) Create(ctx context.Context, actor string, in ports.UserInput) (*ports.UserResult, error) {
	login := strings.ToLower(strings.TrimSpace(in.Login))
	if login == "" {
		return nil, domain.ErrLoginRequired
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.repo.FindOneByLogin(ctx, login); err == nil {
		return nil, domain.ErrLoginExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := s.repo.FindOneByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             in.ID,
		Login:          login,
		Email:          email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		LangKey:        in.LangKey,
		ImageURL:       in.ImageURL,
		Activated:      in.Activated,
		Roles:          domain.ParseRoles(in.Roles),
		CreatedBy:      orSystem(actor),
		CreatedAt:      now,
		LastModifiedBy: orSystem(actor),
		LastModifiedAt: now,
	}
	if user.ID == "" {
		user.ID = generateUserID()
	}
	if user.LangKey == "" {
		user.LangKey = s.opts.DefaultLangKey
	}

	if err := s.clearUserCaches(ctx, user); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("login", user.Login).Str("created_by", user.CreatedBy).Msg("user created")
	return toUserResult(user), nil
}

// Update replaces the mutable fields of an existing user, including the
// role set wholesale. The target is located by id when given, otherwise by
// login. Login is immutable unless the legacy overwrite option is enabled.
func (s *UserService) Update(ctx context.Context, actor string, in ports.UserInput) (*ports.UserResult, error) {
	user, err := s.findTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	// Evict with the pre-mutation key values before touching anything.
	if err := s.clearUserCaches(ctx, user); err != nil {
		return nil, err
	}

	oldLogin, oldEmail := user.Login, user.Email

	if s.opts.AllowLoginOverwrite && in.Login != "" {
		user.Login = strings.ToLower(strings.TrimSpace(in.Login))
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if in.Email != "" {
		user.Email = strings.ToLower(in.Email)
	}
	if in.LangKey != "" {
		user.LangKey = in.LangKey
	}
	user.ImageURL = in.ImageURL
	user.Activated = in.Activated
	user.Roles = domain.ParseRoles(in.Roles)
	user.LastModifiedBy = orSystem(actor)
	user.LastModifiedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// A changed key could still serve a stale snapshot under its new
	// value; purge both old and new.
	if err := s.evictChangedKeys(ctx, oldLogin, oldEmail, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("login", user.Login).Str("modified_by", user.LastModifiedBy).Msg("user updated")
	return toUserResult(user), nil
}

// UpdateCurrent applies a self-service profile change. The login key never
// changes on this path.
func (s *UserService) UpdateCurrent(ctx context.Context, login string, in ports.ProfileInput) error {
	user, err := s.repo.FindOneByLogin(ctx, strings.ToLower(login))
	if err != nil {
		return err
	}

	if err := s.clearUserCaches(ctx, user); err != nil {
		return err
	}
	oldEmail := user.Email

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if in.Email != "" {
		user.Email = strings.ToLower(in.Email)
	}
	if in.LangKey != "" {
		user.LangKey = in.LangKey
	}
	user.ImageURL = in.ImageURL
	user.LastModifiedBy = user.Login
	user.LastModifiedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.evictChangedKeys(ctx, user.Login, oldEmail, user); err != nil {
		return err
	}

	s.logger.Info().Str("login", user.Login).Msg("profile updated")
	return nil
}

// Delete removes a user by login and purges its cached projections.
// Deleting an absent login is a no-op success.
func (s *UserService) Delete(ctx context.Context, login string) error {
	user, err := s.repo.FindOneByLogin(ctx, strings.ToLower(login))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.clearUserCaches(ctx, user); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.Login); err != nil {
		return err
	}

	s.logger.Info().Str("login", user.Login).Msg("user deleted")
	return nil
}

// List pages through users, excluding the anonymous sentinel login.
func (s *UserService) List(ctx context.Context, page, limit int) ([]*ports.UserResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := s.repo.FindAllByLoginNot(ctx, s.opts.AnonymousLogin, page, limit)
	if err != nil {
		return nil, 0, err
	}

	results := make([]*ports.UserResult, len(users))
	for i, u := range users {
		results[i] = toUserResult(u)
	}
	return results, total, nil
}

// GetByLogin loads a user with its role set through the cache.
func (s *UserService) GetByLogin(ctx context.Context, login string) (*ports.UserResult, error) {
	user, err := s.repo.FindOneWithRolesByLogin(ctx, strings.ToLower(login))
	if err != nil {
		return nil, err
	}
	return toUserResult(user), nil
}

// Authorities returns the distinct role names known to the system.
func (s *UserService) Authorities() []string {
	names := make([]string, len(domain.AllRoles))
	for i, r := range domain.AllRoles {
		names[i] = string(r)
	}
	return names
}

// ResolveFromToken resolves the token to a user and provisions a record on
// first sight of an unseen identity. Persisted identities are returned as
// stored; the token never mutates them.
func (s *UserService) ResolveFromToken(ctx context.Context, token auth.Token) (*ports.UserResult, error) {
	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	// A zero creation timestamp marks a transient record synthesized from
	// claims: persist it now (JIT provisioning at the call boundary).
	if user.CreatedAt.IsZero() {
		now := time.Now().UTC()
		if user.ID == "" {
			user.ID = generateUserID()
		}
		user.CreatedBy = systemAccount
		user.CreatedAt = now
		user.LastModifiedBy = systemAccount
		user.LastModifiedAt = now

		if err := s.repo.Create(ctx, user); err != nil {
			// Lost a provisioning race: the stored record wins.
			if errors.Is(err, domain.ErrLoginExists) || errors.Is(err, domain.ErrEmailExists) {
				return s.GetByLogin(ctx, user.Login)
			}
			return nil, err
		}
		metrics.UsersProvisionedTotal.Inc()
		s.logger.Info().Str("login", user.Login).Msg("user provisioned from token")
	}

	return toUserResult(user), nil
}

// findTarget locates the user an admin update addresses: by id when
// provided, otherwise by login.
func (s *UserService) findTarget(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	if in.ID != "" {
		return s.repo.FindByID(ctx, in.ID)
	}
	return s.repo.FindOneByLogin(ctx, strings.ToLower(in.Login))
}

// clearUserCaches evicts both projection keys of the user. Failures
// propagate: invalidation is tied to the surrounding mutation.
func (s *UserService) clearUserCaches(ctx context.Context, user *domain.User) error {
	if err := s.byLogin.Evict(ctx, user.Login); err != nil {
		return fmt.Errorf("evict %s: %w", ports.UsersByLoginCache, err)
	}
	if user.Email != "" {
		if err := s.byEmail.Evict(ctx, user.Email); err != nil {
			return fmt.Errorf("evict %s: %w", ports.UsersByEmailCache, err)
		}
	}
	return nil
}

// evictChangedKeys purges the post-mutation key values when they differ
// from the pre-mutation ones already evicted.
func (s *UserService) evictChangedKeys(ctx context.Context, oldLogin, oldEmail string, user *domain.User) error {
	if user.Login != oldLogin {
		if err := s.byLogin.Evict(ctx, user.Login); err != nil {
			return fmt.Errorf("evict %s: %w", ports.UsersByLoginCache, err)
		}
	}
	if user.Email != "" && user.Email != oldEmail {
		if err := s.byEmail.Evict(ctx, user.Email); err != nil {
			return fmt.Errorf("evict %s: %w", ports.UsersByEmailCache, err)
		}
	}
	return nil
}

func toUserResult(u *domain.User) *ports.UserResult {
	return &ports.UserResult{
		ID:             u.ID,
		Login:          u.Login,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		LangKey:        u.LangKey,
		ImageURL:       u.ImageURL,
		Activated:      u.Activated,
		Roles:          u.RoleNames(),
		CreatedBy:      u.CreatedBy,
		CreatedAt:      u.CreatedAt,
		LastModifiedBy: u.LastModifiedBy,
		LastModifiedAt: u.LastModifiedAt,
	}
}

func orSystem(actor string) string {
	if actor == "" {
		return systemAccount
	}
	return actor
}

// generateUserID returns a random 24-hex-char identifier for users created
// without an identity-provider subject.
func generateUserID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%024x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
