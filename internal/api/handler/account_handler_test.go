package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/api/middleware"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

func TestAccountHandler_Get(t *testing.T) {
	svc := newStubUserService()
	h := NewAccountHandler(svc)

	c, rec := newEchoContext(http.MethodGet, "/api/account", "")
	c.Set(middleware.CtxClaims, jwt.MapClaims{
		"sub":                "sub-1",
		"preferred_username": "JDoe",
	})

	if err := h.Get(c); err != nil {
		t.Fatalf("get account: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Login != "jdoe" {
		t.Errorf("login = %q", resp.Login)
	}
}

func TestAccountHandler_Get_MissingClaims(t *testing.T) {
	h := NewAccountHandler(newStubUserService())

	c, _ := newEchoContext(http.MethodGet, "/api/account", "")
	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestAccountHandler_Update(t *testing.T) {
	svc := newStubUserService(&ports.UserResult{ID: "u1", Login: "jdoe", LangKey: "en"})
	h := NewAccountHandler(svc)

	c, rec := newEchoContext(http.MethodPost, "/api/account",
		`{"first_name":"Johnny","lang_key":"fr"}`)
	asPrincipal(c, "jdoe")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if svc.lastProfile.FirstName != "Johnny" || svc.lastProfile.LangKey != "fr" {
		t.Errorf("profile input: %+v", svc.lastProfile)
	}
}

func TestAccountHandler_Update_Rejections(t *testing.T) {
	svc := newStubUserService(&ports.UserResult{ID: "u1", Login: "jdoe", LangKey: "en"})
	h := NewAccountHandler(svc)

	// Invalid email fails validation.
	c, _ := newEchoContext(http.MethodPost, "/api/account", `{"email":"nope"}`)
	asPrincipal(c, "jdoe")
	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("bad email: got %v, want 400", err)
	}

	// No principal in context.
	c, _ = newEchoContext(http.MethodPost, "/api/account", `{"first_name":"x"}`)
	err = h.Update(c)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("missing principal: got %v, want 401", err)
	}

	// Unknown login surfaces the domain error.
	c, _ = newEchoContext(http.MethodPost, "/api/account", `{"first_name":"x"}`)
	asPrincipal(c, "ghost")
	if err := h.Update(c); err != domain.ErrUserNotFound {
		t.Errorf("unknown login: got %v", err)
	}
}
