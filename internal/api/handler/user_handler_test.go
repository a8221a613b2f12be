package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/api/middleware"
	"github.com/theagilemonkeys/crm-api/internal/core/auth"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// stubUserService satisfies ports.UserService with canned responses.
type stubUserService struct {
	users       map[string]*ports.UserResult
	lastActor   string
	lastInput   ports.UserInput
	lastProfile ports.ProfileInput
	deleted     []string
	createErr   error
}

func newStubUserService(users ...*ports.UserResult) *stubUserService {
	s := &stubUserService{users: make(map[string]*ports.UserResult)}
	for _, u := range users {
		s.users[u.Login] = u
	}
	return s
}

func (s *stubUserService) Create(_ context.Context, actor string, in ports.UserInput) (*ports.UserResult, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastActor, s.lastInput = actor, in
	return &ports.UserResult{
		ID:        "generated-id",
		Login:     strings.ToLower(in.Login),
		Email:     strings.ToLower(in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		LangKey:   "en",
		Activated: in.Activated,
		Roles:     in.Roles,
		CreatedBy: actor,
	}, nil
}

func (s *stubUserService) Update(_ context.Context, actor string, in ports.UserInput) (*ports.UserResult, error) {
	s.lastActor, s.lastInput = actor, in
	for _, u := range s.users {
		if u.ID == in.ID {
			updated := *u
			updated.FirstName = in.FirstName
			return &updated, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) UpdateCurrent(_ context.Context, login string, in ports.ProfileInput) error {
	if _, ok := s.users[login]; !ok {
		return domain.ErrUserNotFound
	}
	s.lastProfile = in
	return nil
}

func (s *stubUserService) Delete(_ context.Context, login string) error {
	s.deleted = append(s.deleted, login)
	return nil
}

func (s *stubUserService) List(_ context.Context, page, limit int) ([]*ports.UserResult, int64, error) {
	results := make([]*ports.UserResult, 0, len(s.users))
	for _, u := range s.users {
		results = append(results, u)
	}
	return results, int64(len(results)), nil
}

func (s *stubUserService) GetByLogin(_ context.Context, login string) (*ports.UserResult, error) {
	u, ok := s.users[strings.ToLower(login)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) Authorities() []string {
	return []string{"ADMIN", "USER"}
}

func (s *stubUserService) ResolveFromToken(_ context.Context, token auth.Token) (*ports.UserResult, error) {
	login, ok := token.StringClaim("preferred_username")
	if !ok {
		login, _ = token.StringClaim("sub")
	}
	login = strings.ToLower(login)
	if u, ok := s.users[login]; ok {
		return u, nil
	}
	return &ports.UserResult{ID: login, Login: login, LangKey: "en"}, nil
}

func newEchoContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asPrincipal(c echo.Context, login string) {
	c.Set(middleware.CtxLogin, login)
}

func TestUserHandler_Create(t *testing.T) {
	svc := newStubUserService()
	h := NewUserHandler(svc)

	c, rec := newEchoContext(http.MethodPost, "/api/users",
		`{"login":"JohnDoe","email":"john@example.com","first_name":"John","authorities":["USER"]}`)
	asPrincipal(c, "admin")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Login != "johndoe" {
		t.Errorf("login = %q", resp.Login)
	}
	if len(resp.Authorities) != 1 || resp.Authorities[0] != "USER" {
		t.Errorf("authorities = %v", resp.Authorities)
	}
	if svc.lastActor != "admin" {
		t.Errorf("actor = %q", svc.lastActor)
	}
}

func TestUserHandler_Create_ValidationFailures(t *testing.T) {
	h := NewUserHandler(newStubUserService())

	cases := []struct {
		name string
		body string
	}{
		{"missing login", `{"email":"a@b.com"}`},
		{"bad email", `{"login":"jdoe","email":"not-an-email"}`},
		{"not json", `login=jdoe`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newEchoContext(http.MethodPost, "/api/users", tc.body)
			asPrincipal(c, "admin")

			err := h.Create(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusBadRequest {
				t.Errorf("got %v, want 400", err)
			}
		})
	}
}

func TestUserHandler_Create_RequiresPrincipal(t *testing.T) {
	h := NewUserHandler(newStubUserService())

	c, _ := newEchoContext(http.MethodPost, "/api/users", `{"login":"jdoe"}`)
	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestUserHandler_Create_ConflictPassesThrough(t *testing.T) {
	svc := newStubUserService()
	svc.createErr = domain.ErrLoginExists
	h := NewUserHandler(svc)

	c, _ := newEchoContext(http.MethodPost, "/api/users", `{"login":"jdoe"}`)
	asPrincipal(c, "admin")

	if err := h.Create(c); err != domain.ErrLoginExists {
		t.Errorf("domain error must reach the error handler untouched, got %v", err)
	}
}

func TestUserHandler_Get(t *testing.T) {
	svc := newStubUserService(&ports.UserResult{ID: "u1", Login: "jdoe", LangKey: "en"})
	h := NewUserHandler(svc)

	c, rec := newEchoContext(http.MethodGet, "/api/users/jdoe", "")
	c.SetParamNames("login")
	c.SetParamValues("jdoe")

	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	c, _ = newEchoContext(http.MethodGet, "/api/users/ghost", "")
	c.SetParamNames("login")
	c.SetParamValues("ghost")
	if err := h.Get(c); err != domain.ErrUserNotFound {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	svc := newStubUserService(
		&ports.UserResult{ID: "u1", Login: "jdoe", LangKey: "en"},
		&ports.UserResult{ID: "u2", Login: "asmith", LangKey: "en"},
	)
	h := NewUserHandler(svc)

	c, rec := newEchoContext(http.MethodGet, "/api/users?page=1&limit=10", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination.Total != 2 {
		t.Errorf("data=%d total=%d", len(resp.Data), resp.Pagination.Total)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Limit != 10 || resp.Pagination.TotalPages != 1 {
		t.Errorf("pagination: %+v", resp.Pagination)
	}
}

func TestUserHandler_Update_ResolvesTargetFromPath(t *testing.T) {
	svc := newStubUserService(&ports.UserResult{ID: "u1", Login: "jdoe", LangKey: "en"})
	h := NewUserHandler(svc)

	c, rec := newEchoContext(http.MethodPut, "/api/users/jdoe", `{"first_name":"Johnny"}`)
	asPrincipal(c, "admin")
	c.SetParamNames("login")
	c.SetParamValues("jdoe")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if svc.lastInput.ID != "u1" {
		t.Errorf("target id not resolved from path login: %q", svc.lastInput.ID)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	svc := newStubUserService()
	h := NewUserHandler(svc)

	c, rec := newEchoContext(http.MethodDelete, "/api/users/jdoe", "")
	c.SetParamNames("login")
	c.SetParamValues("jdoe")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "jdoe" {
		t.Errorf("deleted = %v", svc.deleted)
	}
}

func TestUserHandler_Authorities(t *testing.T) {
	h := NewUserHandler(newStubUserService())

	c, rec := newEchoContext(http.MethodGet, "/api/users/authorities", "")
	if err := h.Authorities(c); err != nil {
		t.Fatalf("authorities: %v", err)
	}

	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != 2 || names[0] != "ADMIN" || names[1] != "USER" {
		t.Errorf("names = %v", names)
	}
}
