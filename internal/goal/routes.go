package goal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/visibility", h.ToggleVisibility)
	r.Post("/{id}/days/{date}", h.MarkDay)
	r.Get("/{id}/stats", h.GetStats)

	return r
}
