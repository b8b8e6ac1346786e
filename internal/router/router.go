package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/saulo-duarte/chronos-goals/docs"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/middlewares"
	"github.com/saulo-duarte/chronos-goals/internal/notification"
	"github.com/saulo-duarte/chronos-goals/internal/session"
)

type RouterConfig struct {
	GoalHandler         *goal.Handler
	SessionHandler      *session.Handler
	NotificationHandler *notification.Handler // nil when remote storage is off
	AllowedOrigins      []string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.AllowedOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Mount("/session", session.Routes(cfg.SessionHandler))
	r.Mount("/auth", session.AuthRoutes(cfg.SessionHandler))
	r.Mount("/settings", session.SettingsRoutes(cfg.SessionHandler))
	r.Mount("/goals", goal.Routes(cfg.GoalHandler))

	if cfg.NotificationHandler != nil {
		r.Mount("/notifications", notification.Routes(cfg.NotificationHandler))
	}
	return r
}
