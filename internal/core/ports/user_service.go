package ports

import (
	"context"
	"time"

	"github.com/theagilemonkeys/crm-api/internal/core/auth"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// UserInput carries the client-writable fields of a user. Role names that
// do not match a known role are dropped, not rejected.
type UserInput struct {
	ID        string
	Login     string
	Email     string
	FirstName string
	LastName  string
	LangKey   string
	ImageURL  string
	Activated bool
	Roles     []string
}

// ProfileInput carries the fields a user may change on their own account.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	LangKey   string
	ImageURL  string
}

// UserResult is the transfer object returned for a user.
type UserResult struct {
	ID             string
	Login          string
	Email          string
	FirstName      string
	LastName       string
	LangKey        string
	ImageURL       string
	Activated      bool
	Roles          []string
	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
}

// UserService orchestrates user CRUD, identity resolution and the cache
// invalidation tied to every mutation.
type UserService interface {
	Create(ctx context.Context, actor string, in UserInput) (*UserResult, error)
	Update(ctx context.Context, actor string, in UserInput) (*UserResult, error)
	// UpdateCurrent applies a self-service profile change to the user
	// identified by login. The login itself is never touched.
	UpdateCurrent(ctx context.Context, login string, in ProfileInput) error
	// Delete removes the user by login. Deleting an absent login succeeds.
	Delete(ctx context.Context, login string) error
	List(ctx context.Context, page, limit int) ([]*UserResult, int64, error)
	GetByLogin(ctx context.Context, login string) (*UserResult, error)
	// Authorities returns the distinct role names known to the system.
	Authorities() []string
	// ResolveFromToken resolves the token's claims to a user, persisting a
	// just-in-time provisioned record on first sight of an unseen identity.
	ResolveFromToken(ctx context.Context, token auth.Token) (*UserResult, error)
}

// Authorizer decides whether the principal identified by login may perform
// an operation. It is a pure query over the principal's current role
// snapshot; an absent principal is an ordinary deny.
type Authorizer interface {
	Authorize(ctx context.Context, login string, op domain.Operation) bool
}
