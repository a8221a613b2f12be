package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// CachedUserRepository decorates a UserRepository with read-through caching
// of the user-with-roles lookups, one named cache per key (login, email).
// All other calls pass through untouched; eviction on mutation is owned by
// the user service, which holds the same cache handles.
//
// A broken or unreachable cache never blocks a read: failures on the read
// path degrade to the repository and are logged. Only eviction failures on
// the write path are strict.
type CachedUserRepository struct {
	ports.UserRepository
	byLogin ports.UserCache
	byEmail ports.UserCache
	logger  zerolog.Logger
}

func NewCachedUserRepository(inner ports.UserRepository, byLogin, byEmail ports.UserCache, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{UserRepository: inner, byLogin: byLogin, byEmail: byEmail, logger: logger}
}

func (r *CachedUserRepository) FindOneWithRolesByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.readThrough(ctx, r.byLogin, login, r.UserRepository.FindOneWithRolesByLogin)
}

func (r *CachedUserRepository) FindOneWithRolesByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.readThrough(ctx, r.byEmail, email, r.UserRepository.FindOneWithRolesByEmail)
}

func (r *CachedUserRepository) readThrough(ctx context.Context, cache ports.UserCache, key string,
	load func(context.Context, string) (*domain.User, error)) (*domain.User, error) {

	cached, ok, err := cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to repository")
	} else if ok {
		return cached, nil
	}

	user, err := load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ctx, key, user); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache populate failed")
	}
	return user, nil
}
