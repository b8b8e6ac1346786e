package notification

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/config"
)

// IdentitySource reports the user of an online session.
type IdentitySource interface {
	Identity() (*auth.Identity, error)
}

type Handler struct {
	service    *Service
	identities IdentitySource
}

func NewHandler(service *Service, identities IdentitySource) *Handler {
	return &Handler{service: service, identities: identities}
}

// RegisterToken godoc
// @Summary Register a device for reminders
// @Tags notifications
// @Accept json
// @Param token body RegisterTokenDTO true "device token"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /notifications/tokens [post]
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := h.identities.Identity()
	if err != nil {
		config.Error(w, http.StatusConflict, err.Error())
		return
	}

	var dto RegisterTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.RegisterToken(r.Context(), id.UserID, dto); err != nil {
		if errors.Is(err, ErrEmptyToken) {
			config.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
