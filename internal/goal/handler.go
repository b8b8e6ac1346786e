package goal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/sirupsen/logrus"
)

// Workspace hands out the store that is authoritative for the current session.
type Workspace interface {
	Goals(ctx context.Context) (*Store, error)
	Today() util.Date
}

type Handler struct {
	workspace Workspace
}

func NewHandler(workspace Workspace) *Handler {
	return &Handler{workspace: workspace}
}

// List godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Param all query bool false "include hidden goals"
// @Success 200 {array} GoalSummary
// @Router /goals [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	today := h.workspace.Today()
	goals := store.List(r.URL.Query().Get("all") == "true")
	summaries := make([]GoalSummary, 0, len(goals))
	for _, g := range goals {
		summaries = append(summaries, GoalSummary{Goal: g, Stats: CalculateStats(g, today)})
	}

	config.JSON(w, http.StatusOK, summaries)
}

// Create godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param goal body CreateGoalDTO true "goal"
// @Success 201 {object} MutationResponse
// @Router /goals [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := dto.ToDraft()
	if err != nil {
		writeError(w, log, err)
		return
	}

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res, err := store.Add(r.Context(), draft)
	writeMutation(w, log, http.StatusCreated, res, err)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Param id path string true "goal id"
// @Success 200 {object} GoalSummary
// @Router /goals/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	g, err := store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	config.JSON(w, http.StatusOK, GoalSummary{Goal: g, Stats: CalculateStats(g, h.workspace.Today())})
}

// Update godoc
// @Summary Update a goal
// @Description Changing startDate or endDate regenerates every day and requires "confirm": true.
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "goal id"
// @Param goal body UpdateGoalDTO true "fields to change"
// @Success 200 {object} MutationResponse
// @Failure 409 {object} map[string]string
// @Router /goals/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res, err := store.Update(r.Context(), chi.URLParam(r, "id"), dto.ToPatch())
	writeMutation(w, log, http.StatusOK, res, err)
}

// Delete godoc
// @Summary Delete a goal permanently
// @Tags goals
// @Param id path string true "goal id"
// @Success 204
// @Router /goals/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res, err := store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeMutation(w, log, http.StatusOK, res, err)
}

// ToggleVisibility godoc
// @Summary Hide or unhide a goal
// @Tags goals
// @Produce json
// @Param id path string true "goal id"
// @Success 200 {object} MutationResponse
// @Router /goals/{id}/visibility [post]
func (h *Handler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res, err := store.ToggleVisibility(r.Context(), chi.URLParam(r, "id"))
	writeMutation(w, log, http.StatusOK, res, err)
}

// MarkDay godoc
// @Summary Mark a pending day as completed or skipped
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "goal id"
// @Param date path string true "date (YYYY-MM-DD)"
// @Param day body MarkDayDTO true "status and note"
// @Success 200 {object} MutationResponse
// @Router /goals/{id}/days/{date} [post]
func (h *Handler) MarkDay(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	date, err := util.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		config.Error(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var dto MarkDayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	res, err := store.MarkDay(r.Context(), chi.URLParam(r, "id"), date, dto.Status, dto.Description)
	writeMutation(w, log, http.StatusOK, res, err)
}

// GetStats godoc
// @Summary Progress and streak of a goal
// @Tags goals
// @Produce json
// @Param id path string true "goal id"
// @Success 200 {object} Stats
// @Router /goals/{id}/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	store, err := h.workspace.Goals(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	stats, err := store.Stats(chi.URLParam(r, "id"), h.workspace.Today())
	if err != nil {
		writeError(w, log, err)
		return
	}

	config.JSON(w, http.StatusOK, stats)
}

func writeMutation(w http.ResponseWriter, log logrus.FieldLogger, status int, res Result, err error) {
	if err != nil && !errors.Is(err, ErrPersistence) {
		writeError(w, log, err)
		return
	}
	if err != nil {
		log.WithError(err).Warn("Responding with unpersisted goal change")
		status = http.StatusOK
	}

	config.JSON(w, status, MutationResponse{
		Goal:      res.Goal,
		Changed:   res.Changed,
		Persisted: err == nil,
	})
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	switch {
	case IsValidation(err):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGoalNotFound), errors.Is(err, ErrDayNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConfirmationRequired):
		config.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNoActiveStore):
		config.Error(w, http.StatusConflict, "sign in or continue offline first")
	default:
		log.WithError(err).Error("Goal request failed")
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
