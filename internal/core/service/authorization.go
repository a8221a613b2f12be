package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// CustomerPolicy selects which roles may perform customer operations. The
// source history carries both variants, so the choice is configuration.
type CustomerPolicy string

const (
	// PolicyAdminOrUser opens customer operations to ADMIN and USER.
	PolicyAdminOrUser CustomerPolicy = "admin_or_user"
	// PolicyAdminOnly restricts customer operations to ADMIN.
	PolicyAdminOnly CustomerPolicy = "admin_only"
)

// ParseCustomerPolicy maps a config value to a policy, defaulting to
// PolicyAdminOrUser for empty or unknown values.
func ParseCustomerPolicy(s string) CustomerPolicy {
	if CustomerPolicy(strings.ToLower(strings.TrimSpace(s))) == PolicyAdminOnly {
		return PolicyAdminOnly
	}
	return PolicyAdminOrUser
}

// Authorizer is the pure decision function (principal, operation) → allow.
// The principal's role snapshot is loaded through the cached repository;
// the decision is a disjunction over the required roles. No mutation, no
// information about the deny reason leaks to callers.
type Authorizer struct {
	repo   ports.UserRepository
	policy CustomerPolicy
	logger zerolog.Logger
}

func NewAuthorizer(repo ports.UserRepository, policy CustomerPolicy, logger zerolog.Logger) *Authorizer {
	if policy == "" {
		policy = PolicyAdminOrUser
	}
	return &Authorizer{repo: repo, policy: policy, logger: logger}
}

// Authorize reports whether the principal identified by login may perform
// op. An empty login and an unknown operation both deny.
func (a *Authorizer) Authorize(ctx context.Context, login string, op domain.Operation) bool {
	required, known := a.requiredRoles(op)
	if !known || login == "" {
		return false
	}

	user, err := a.repo.FindOneWithRolesByLogin(ctx, strings.ToLower(login))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			a.logger.Error().Err(err).Str("login", login).Msg("role snapshot load failed, denying")
		}
		return false
	}

	for _, role := range required {
		if user.HasRole(role) {
			return true
		}
	}
	return false
}

// requiredRoles is the per-operation policy table. User management and the
// authorities listing are ADMIN-only; customer operations follow the
// configured policy.
func (a *Authorizer) requiredRoles(op domain.Operation) ([]domain.Role, bool) {
	switch op {
	case domain.OpUserCreate, domain.OpUserUpdate, domain.OpUserDelete,
		domain.OpUserList, domain.OpUserSearch, domain.OpAuthoritiesRead:
		return []domain.Role{domain.RoleAdmin}, true
	case domain.OpCustomerCreate, domain.OpCustomerUpdate, domain.OpCustomerDelete,
		domain.OpCustomerList, domain.OpCustomerSearch:
		if a.policy == PolicyAdminOnly {
			return []domain.Role{domain.RoleAdmin}, true
		}
		return []domain.Role{domain.RoleAdmin, domain.RoleUser}, true
	default:
		return nil, false
	}
}
