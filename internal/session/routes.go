package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.GetStatus)
	r.Post("/offline", h.ContinueOffline)
	r.Post("/welcome", h.CompleteWelcome)
	r.Post("/activate", h.Activate)
	r.Post("/merge", h.Merge)
	r.Delete("/merge", h.DeclineMerge)

	return r
}

func AuthRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	return r
}

func SettingsRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.GetSettings)
	r.Put("/", h.UpdateSettings)

	return r
}
