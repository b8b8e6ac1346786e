package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

// GetStatus godoc
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} Status
// @Router /session [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.ctrl.Status())
}

// ContinueOffline godoc
// @Summary Use the app without an account
// @Tags session
// @Produce json
// @Success 200 {object} Status
// @Failure 409 {object} ErrorResponse
// @Router /session/offline [post]
func (h *Handler) ContinueOffline(w http.ResponseWriter, r *http.Request) {
	st, err := h.ctrl.ContinueOffline(r.Context())
	if err != nil {
		config.Error(w, http.StatusConflict, err.Error())
		return
	}
	config.JSON(w, http.StatusOK, st)
}

// CompleteWelcome godoc
// @Summary Mark the welcome screen as seen
// @Tags session
// @Produce json
// @Success 200 {object} Status
// @Router /session/welcome [post]
func (h *Handler) CompleteWelcome(w http.ResponseWriter, r *http.Request) {
	st, err := h.ctrl.CompleteWelcome(r.Context())
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to store welcome flag")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	config.JSON(w, http.StatusOK, st)
}

// Activate godoc
// @Summary Run the daily rollover
// @Tags session
// @Produce json
// @Success 200 {object} ActivateResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/activate [post]
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	n, err := h.ctrl.Activate(r.Context())
	switch {
	case errors.Is(err, goal.ErrNoActiveStore):
		config.Error(w, http.StatusConflict, "sign in or continue offline first")
		return
	case err != nil:
		log.WithError(err).Warn("Rollover not fully persisted")
	}
	config.JSON(w, http.StatusOK, ActivateResponse{Status: h.ctrl.Status(), FailedMarked: n})
}

// Merge godoc
// @Summary Copy local goals into the account
// @Tags session
// @Produce json
// @Success 200 {object} MergeResult
// @Failure 409 {object} ErrorResponse
// @Router /session/merge [post]
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	res, err := h.ctrl.Merge(r.Context())
	switch {
	case errors.Is(err, ErrNoMergePending), errors.Is(err, ErrNotOnline):
		config.Error(w, http.StatusConflict, err.Error())
	case err != nil:
		log.WithError(err).Error("Merge failed")
		config.Error(w, http.StatusBadGateway, "merge failed, try again")
	default:
		config.JSON(w, http.StatusOK, res)
	}
}

// DeclineMerge godoc
// @Summary Keep local goals out of the account
// @Tags session
// @Success 204
// @Failure 409 {object} ErrorResponse
// @Router /session/merge [delete]
func (h *Handler) DeclineMerge(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.DeclineMerge(r.Context()); err != nil {
		config.Error(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsDTO true "credentials"
// @Success 201 {object} Status
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	dto, ok := decodeCredentials(w, r, true)
	if !ok {
		return
	}

	st, err := h.ctrl.Register(r.Context(), dto.Email, dto.Password)
	if err != nil {
		writeAuthError(w, log, err)
		return
	}
	config.JSON(w, http.StatusCreated, st)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsDTO true "credentials"
// @Success 200 {object} Status
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	dto, ok := decodeCredentials(w, r, false)
	if !ok {
		return
	}

	st, err := h.ctrl.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		writeAuthError(w, log, err)
		return
	}
	config.JSON(w, http.StatusOK, st)
}

// Logout godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} Status
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	st, err := h.ctrl.Logout(r.Context())
	if err != nil {
		log.WithError(err).Error("Logout failed")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	log.Info("User logged out")
	config.JSON(w, http.StatusOK, st)
}

// GetSettings godoc
// @Summary Current settings
// @Tags settings
// @Produce json
// @Success 200 {object} settings.Settings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.ctrl.Settings())
}

// UpdateSettings godoc
// @Summary Change settings
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body settings.UpdateSettingsDTO true "changed fields"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto settings.UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.ctrl.UpdateSettings(r.Context(), dto)
	switch {
	case errors.Is(err, settings.ErrInvalidTheme):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSettingsNotPersisted):
		config.JSON(w, http.StatusOK, SettingsResponse{Settings: s, Persisted: false})
	case err != nil:
		log.WithError(err).Error("Failed to update settings")
		config.Error(w, http.StatusInternalServerError, "internal server error")
	default:
		config.JSON(w, http.StatusOK, SettingsResponse{Settings: s, Persisted: true})
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request, register bool) (CredentialsDTO, bool) {
	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return dto, false
	}
	if err := dto.validate(register); err != nil {
		config.Error(w, http.StatusBadRequest, err.Error())
		return dto, false
	}
	return dto, true
}

func writeAuthError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var aerr *auth.Error
	if !errors.As(err, &aerr) {
		log.WithError(err).Error("Authentication failed")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusUnauthorized
	switch aerr.Code {
	case auth.CodeInvalidEmail, auth.CodeWeakPassword:
		status = http.StatusBadRequest
	case auth.CodeEmailInUse:
		status = http.StatusConflict
	case auth.CodeTooManyRequests:
		status = http.StatusTooManyRequests
	case auth.CodeUnavailable:
		status = http.StatusServiceUnavailable
	case auth.CodeInternal:
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Authentication failed")
	} else {
		log.WithField("code", aerr.Code).Info("Authentication rejected")
	}

	config.JSON(w, status, ErrorResponse{Error: aerr.Message(), Code: string(aerr.Code)})
}
