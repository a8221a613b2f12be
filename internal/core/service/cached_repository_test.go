package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// countingUserRepo counts the with-roles lookups hitting the backing store.
type countingUserRepo struct {
	ports.UserRepository
	loginLoads int
	emailLoads int
}

func (r *countingUserRepo) FindOneWithRolesByLogin(ctx context.Context, login string) (*domain.User, error) {
	r.loginLoads++
	return r.UserRepository.FindOneWithRolesByLogin(ctx, login)
}

func (r *countingUserRepo) FindOneWithRolesByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.emailLoads++
	return r.UserRepository.FindOneWithRolesByEmail(ctx, email)
}

func TestCachedUserRepository_PopulatesAndServesFromCache(t *testing.T) {
	inner := &countingUserRepo{UserRepository: newStubUserRepo(adminUser())}
	byLogin := newStubUserCache()
	cached := NewCachedUserRepository(inner, byLogin, newStubUserCache(), zerolog.Nop())
	ctx := context.Background()

	first, err := cached.FindOneWithRolesByLogin(ctx, "admin")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if inner.loginLoads != 1 {
		t.Fatalf("expected one backing load, got %d", inner.loginLoads)
	}
	if _, ok := byLogin.entries["admin"]; !ok {
		t.Fatal("cache not populated after miss")
	}

	second, err := cached.FindOneWithRolesByLogin(ctx, "admin")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if inner.loginLoads != 1 {
		t.Errorf("cache hit still hit the backing store, loads=%d", inner.loginLoads)
	}
	if second.Login != first.Login || len(second.Roles) != len(first.Roles) {
		t.Errorf("cached snapshot differs: %+v vs %+v", second, first)
	}
}

func TestCachedUserRepository_EmailKeyIsSeparate(t *testing.T) {
	inner := &countingUserRepo{UserRepository: newStubUserRepo(adminUser())}
	byEmail := newStubUserCache()
	cached := NewCachedUserRepository(inner, newStubUserCache(), byEmail, zerolog.Nop())

	if _, err := cached.FindOneWithRolesByEmail(context.Background(), "admin@localhost"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := byEmail.entries["admin@localhost"]; !ok {
		t.Error("email cache not populated under the email key")
	}
	if inner.emailLoads != 1 {
		t.Errorf("loads=%d", inner.emailLoads)
	}
}

func TestCachedUserRepository_CacheFailureFallsBack(t *testing.T) {
	inner := &countingUserRepo{UserRepository: newStubUserRepo(adminUser())}
	byLogin := newStubUserCache()
	byLogin.getErr = errors.New("cache backend down")
	byLogin.putErr = errors.New("cache backend down")
	cached := NewCachedUserRepository(inner, byLogin, newStubUserCache(), zerolog.Nop())

	got, err := cached.FindOneWithRolesByLogin(context.Background(), "admin")
	if err != nil {
		t.Fatalf("read must degrade to the repository: %v", err)
	}
	if got.Login != "admin" {
		t.Errorf("login: %q", got.Login)
	}
}

func TestCachedUserRepository_NotFoundIsNotCached(t *testing.T) {
	inner := &countingUserRepo{UserRepository: newStubUserRepo()}
	byLogin := newStubUserCache()
	cached := NewCachedUserRepository(inner, byLogin, newStubUserCache(), zerolog.Nop())

	_, err := cached.FindOneWithRolesByLogin(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(byLogin.entries) != 0 {
		t.Errorf("miss must not populate the cache: %v", byLogin.entries)
	}
}
