package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func invokeAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, c, handler(c)
}

func TestAuth_ValidTokenSetsPrincipal(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                "internal-id",
		"preferred_username": "JDoe",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	rec, c, err := invokeAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got, _ := c.Get(CtxLogin).(string); got != "jdoe" {
		t.Errorf("login = %q, want lower-cased preferred_username", got)
	}
	if _, ok := c.Get(CtxClaims).(jwt.MapClaims); !ok {
		t.Error("claims not stored in context")
	}
}

func TestAuth_SubFallbackForLogin(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "Admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, c, err := invokeAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got, _ := c.Get(CtxLogin).(string); got != "admin" {
		t.Errorf("login = %q, want lower-cased sub", got)
	}
}

func TestAuth_Rejections(t *testing.T) {
	valid := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jdoe",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jdoe",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "jdoe",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"missing scheme", valid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := invokeAuth(t, tc.header)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusUnauthorized {
				t.Errorf("got %v, want 401", err)
			}
		})
	}
}

func TestAuth_RejectsUnexpectedAlgorithm(t *testing.T) {
	// alg=none style downgrade must not pass even with an empty signature.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "jdoe",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, _, handlerErr := invokeAuth(t, "Bearer "+unsigned)
	httpErr, ok := handlerErr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", handlerErr)
	}
}
