package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/hopelink/hopelink/internal/auth/domain"
	"github.com/hopelink/hopelink/internal/auth/session"
)

func TestSignUpHandlerSetsSessionCookie(t *testing.T) {
	authSvc := &fakeAuthService{
		signUpResult: authdomain.AuthResult{
			User: authdomain.User{
				ID:    snowflake.ID(42),
				Name:  "Alice",
				Email: "alice@example.com",
				Role:  authdomain.RoleUser,
			},
			Token:     "opaque-token",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	srv := newTestServer()
	srv.authsvc = authSvc

	router := newTestRouter()
	router.POST("/auth/register", srv.SignUp)

	body := `{"name":"Alice","email":"alice@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"alice@example.com"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response must not leak password fields: %s", rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "opaque-token" {
		t.Fatalf("unexpected cookie value %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http only")
	}
}

func TestSignUpHandlerMapsEmailTaken(t *testing.T) {
	srv := newTestServer()
	srv.authsvc = &fakeAuthService{signUpErr: authdomain.ErrEmailTaken}

	router := newTestRouter()
	router.POST("/auth/register", srv.SignUp)

	body := `{"name":"Alice","email":"alice@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestSignInHandlerMapsInvalidCredentials(t *testing.T) {
	srv := newTestServer()
	srv.authsvc = &fakeAuthService{signInErr: authdomain.ErrInvalidCredentials}

	router := newTestRouter()
	router.POST("/auth/login", srv.SignIn)

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestSignOutClearsCookie(t *testing.T) {
	authSvc := &fakeAuthService{}
	srv := newTestServer()
	srv.authsvc = authSvc

	router := newTestRouter()
	router.POST("/auth/logout", srv.SignOut)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "opaque-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(authSvc.signedOut) != 1 || authSvc.signedOut[0] != "opaque-token" {
		t.Fatalf("expected token revoked, got %v", authSvc.signedOut)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie cleared")
	}
}

func TestAuthRequiredRejectsAnonymousRequest(t *testing.T) {
	srv := newTestServer()
	srv.authsvc = &fakeAuthService{authErr: authdomain.ErrUnauthenticated}

	router := newTestRouter()
	router.GET("/auth/me", srv.AuthRequired(), srv.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredResolvesUser(t *testing.T) {
	srv := newTestServer()
	srv.authsvc = &fakeAuthService{
		authUser: authdomain.User{
			ID:    snowflake.ID(42),
			Name:  "Alice",
			Email: "alice@example.com",
			Role:  authdomain.RoleUser,
		},
	}

	router := newTestRouter()
	router.GET("/auth/me", srv.AuthRequired(), srv.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "opaque-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"alice@example.com"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRequireRoleBlocksNonAdmins(t *testing.T) {
	srv := newTestServer()
	srv.authsvc = &fakeAuthService{
		authUser: authdomain.User{ID: snowflake.ID(42), Role: authdomain.RoleUser},
	}

	router := newTestRouter()
	router.GET("/admin/projects", srv.AuthRequired(), srv.RequireRole(authdomain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "opaque-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (body %s)", rec.Code, rec.Body.String())
	}
}
