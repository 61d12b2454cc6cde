package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/accounts"
	"portfolio-backend/internal/gate"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/transport"
)

const (
	accessCookieName  = "portfolio_access"
	refreshCookieName = "portfolio_refresh"
	refreshCookiePath = "/api/v1/admin"
)

type AdminLoginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type AdminSessionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Status string `json:"status"`
}

// AdminLogin opens the admin gate with the shared secret and issues cookie
// tokens carrying the gate capability.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req AdminLoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	if s.Cfg.JWTSecret == "" {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	tok, ok := s.Gate.Login(r.Context(), req.Secret)
	if !ok {
		log.Warn("admin login: invalid credentials")
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	if err := s.issueSession(w, tok); err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin login: ok")
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok"})
}

// AdminSession signs in with an email/password account. It coexists with
// the shared-secret login; both end in the same gate session.
func (s *Server) AdminSession(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req AdminSessionRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin session: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin session: validation error")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	if s.Accounts == nil || s.Cfg.JWTSecret == "" {
		log.Warn("admin session: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := s.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err == accounts.ErrInvalidCredentials {
		log.Warn("admin session: invalid credentials", slog.String("email", req.Email))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if err != nil {
		log.Error("admin session: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	tok := s.Gate.Grant(r.Context())
	if err := s.issueSession(w, tok); err != nil {
		log.Error("admin session: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin session: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok"})
}

type AdminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminRegister creates an email/password admin account. The route sits
// behind the admin middleware, so only an existing admin can add accounts.
func (s *Server) AdminRegister(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req AdminRegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin register: validation error")
		details := httpx.ValidationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	if s.Accounts == nil {
		log.Warn("admin register: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin accounts not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := s.Accounts.Register(ctx, req.Email, req.Password)
	if err == accounts.ErrDuplicateEmail {
		log.Warn("admin register: duplicate", slog.String("email", req.Email))
		transport.WriteError(w, http.StatusConflict, "email already registered", nil)
		return
	}
	if err != nil {
		log.Error("admin register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin register: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusCreated, user)
}

// AdminRefresh rotates the cookie pair. The refresh token must carry a gate
// capability that is still live; a logged-out gate invalidates every cookie.
func (s *Server) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.Cfg.JWTSecret == "" {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	claims, err := s.JWT.Parse(cookie.Value)
	if err != nil || claims.Role != "admin" {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	tok := gate.TokenFrom(claims.Gate)
	if !s.Gate.Valid(tok) {
		log.Warn("admin refresh: stale gate token")
		transport.WriteError(w, http.StatusUnauthorized, "session expired", nil)
		return
	}

	if err := s.issueSession(w, tok); err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin refresh: ok")
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok"})
}

// AdminLogout closes the gate and expires the cookies. Closing the gate
// revokes the capability, so copies of the old cookies stop working too.
func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	s.Gate.Logout(r.Context())
	clearAuthCookies(w, s.Cfg.CookieSecure)
	log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{Status: "ok"})
}

func (s *Server) issueSession(w http.ResponseWriter, tok gate.Token) error {
	access, err := s.JWT.NewAccessToken("admin", tok.Value())
	if err != nil {
		return err
	}
	refresh, err := s.JWT.NewRefreshToken("admin", tok.Value())
	if err != nil {
		return err
	}
	setAuthCookies(w, access, refresh, s.JWT.AccessTTL, s.JWT.RefreshTTL, s.Cfg.CookieSecure)
	return nil
}

func setAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
}
