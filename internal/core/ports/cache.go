package ports

import (
	"context"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// Names of the user projection caches.
const (
	UsersByLoginCache = "usersByLogin"
	UsersByEmailCache = "usersByEmail"
)

// UserCache is one named projection of user-with-roles snapshots keyed by a
// secondary attribute (login or email). Entries never expire on their own;
// only Evict or Clear removes them.
//
// Eviction errors are not swallowed by callers: a failing eviction aborts
// the mutation that required it.
type UserCache interface {
	// Get returns the cached snapshot, ok=false on a miss. A broken entry
	// is reported as an error; callers fall back to the repository.
	Get(ctx context.Context, key string) (*domain.User, bool, error)
	Put(ctx context.Context, key string, user *domain.User) error
	Evict(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
