package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// allowList authorizes exactly the logins it was constructed with.
type allowList map[string]bool

func (a allowList) Authorize(_ context.Context, login string, _ domain.Operation) bool {
	return a[login]
}

func invokeAuthorize(t *testing.T, authz allowList, login string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if login != "" {
		c.Set(CtxLogin, login)
	}

	handler := Authorize(authz, domain.OpUserList)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestAuthorize_AllowsAuthorizedPrincipal(t *testing.T) {
	rec := invokeAuthorize(t, allowList{"admin": true}, "admin")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthorize_DeniesWithOpaqueBody(t *testing.T) {
	rec := invokeAuthorize(t, allowList{"admin": true}, "bob")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"forbidden"`) {
		t.Errorf("body = %q, want opaque forbidden message", body)
	}
	if strings.Contains(body, "role") || strings.Contains(body, "bob") {
		t.Errorf("deny body leaks detail: %q", body)
	}
}

func TestAuthorize_DeniesMissingPrincipal(t *testing.T) {
	rec := invokeAuthorize(t, allowList{"admin": true}, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
