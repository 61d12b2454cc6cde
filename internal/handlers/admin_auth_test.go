package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/gate"
	"portfolio-backend/internal/validation"
)

func testServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Server{
		Cfg: &config.Config{
			JWTSecret:         "jwt-secret",
			AccessTTLMinutes:  15,
			RefreshTTLMinutes: 60,
		},
		Val:  validation.New(),
		Log:  log,
		Gate: gate.New("gate-secret", gate.NewMemoryFlagStore(), log),
		JWT: &auth.Manager{
			Secret:     []byte("jwt-secret"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
			Issuer:     "portfolio-backend",
		},
	}
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAdminLoginWrongSecret(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"secret":"wrong"}`))
	rec := httptest.NewRecorder()
	s.AdminLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if s.Gate.Authenticated() {
		t.Fatalf("gate must stay closed after a failed login")
	}
}

func TestAdminLoginSetsCookies(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"secret":"  gate-secret  "}`))
	rec := httptest.NewRecorder()
	s.AdminLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := rec.Result()
	access := cookieByName(res, accessCookieName)
	refresh := cookieByName(res, refreshCookieName)
	if access == nil || access.Value == "" {
		t.Fatalf("missing access cookie")
	}
	if refresh == nil || refresh.Value == "" {
		t.Fatalf("missing refresh cookie")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatalf("cookies must be http-only")
	}
	if !s.Gate.Authenticated() {
		t.Fatalf("gate should be open after login")
	}

	claims, err := s.JWT.Parse(access.Value)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if !s.Gate.Valid(gate.TokenFrom(claims.Gate)) {
		t.Fatalf("access token must carry the live gate token")
	}
}

func TestAdminRefreshRotatesCookies(t *testing.T) {
	s := testServer()
	tok, ok := s.Gate.Login(httptest.NewRequest(http.MethodPost, "/", nil).Context(), "gate-secret")
	if !ok {
		t.Fatalf("gate login failed")
	}
	refresh, err := s.JWT.NewRefreshToken("admin", tok.Value())
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
	rec := httptest.NewRecorder()
	s.AdminRefresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookieByName(rec.Result(), accessCookieName) == nil {
		t.Fatalf("expected a fresh access cookie")
	}
}

func TestAdminRefreshRejectedAfterLogout(t *testing.T) {
	s := testServer()
	ctx := httptest.NewRequest(http.MethodPost, "/", nil).Context()
	tok, _ := s.Gate.Login(ctx, "gate-secret")
	refresh, err := s.JWT.NewRefreshToken("admin", tok.Value())
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	s.Gate.Logout(ctx)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh})
	rec := httptest.NewRecorder()
	s.AdminRefresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh must fail once the gate is closed, got %d", rec.Code)
	}
}

func TestAdminLogoutClosesGate(t *testing.T) {
	s := testServer()
	ctx := httptest.NewRequest(http.MethodPost, "/", nil).Context()
	s.Gate.Login(ctx, "gate-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/logout", nil)
	rec := httptest.NewRecorder()
	s.AdminLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if s.Gate.Authenticated() {
		t.Fatalf("gate should be closed after logout")
	}

	access := cookieByName(rec.Result(), accessCookieName)
	if access == nil || access.MaxAge != -1 {
		t.Fatalf("access cookie should be expired")
	}
}
