package handlers

import (
	"log/slog"
	"net/http"

	"portfolio-backend/internal/accounts"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/gate"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/validation"
)

type Server struct {
	Cfg      *config.Config
	Val      *validation.Validator
	Log      *slog.Logger
	Gate     *gate.Gate
	JWT      *auth.Manager
	Accounts *accounts.Service
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
