package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"skillhub-translate-worker/internal/entity"
	"skillhub-translate-worker/internal/repository/postgresql"
	"skillhub-translate-worker/internal/service"
)

// Reloader publishes an engine-config invalidation to the workers
// (implementation: engine.RedisNotifier).
type Reloader interface {
	NotifyReload(ctx context.Context) error
}

type Handler struct {
	jobSvc   *service.JobService
	reloader Reloader
	validate *validator.Validate
}

func NewHandler(jobSvc *service.JobService, reloader Reloader) *Handler {
	return &Handler{
		jobSvc:   jobSvc,
		reloader: reloader,
		validate: validator.New(),
	}
}

type enqueueJobDTO struct {
	SkillID     string          `json:"skill_id" validate:"required"`
	PayloadKind string          `json:"payload_kind" validate:"required"`
	SourceLang  string          `json:"source_lang"`
	TargetLang  string          `json:"target_lang" validate:"required"`
	Text        string          `json:"text,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Path        string          `json:"path,omitempty"`
}

type enqueueJobResp struct {
	ID       string `json:"id"`
	Enqueued bool   `json:"enqueued"`
}

type scanSkillDTO struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang" validate:"required"`
}

type scanSkillResp struct {
	Enqueued []string `json:"enqueued"`
}

type jobResp struct {
	ID          string           `json:"id"`
	SkillID     string           `json:"skill_id"`
	PayloadKind string           `json:"payload_kind"`
	SourceLang  string           `json:"source_lang"`
	TargetLang  string           `json:"target_lang"`
	Status      entity.JobStatus `json:"status"`
	Attempts    int              `json:"attempts"`
	LockedBy    *string          `json:"locked_by,omitempty"`
	LastError   *string          `json:"last_error,omitempty"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// EnqueueJob godoc
// @Summary Enqueue a translation job
// @Description Creates one queued job with a deterministic id; enqueueing the same (skill, kind, lang) twice is a no-op.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body enqueueJobDTO true "job payload"
// @Success 201 {object} enqueueJobResp
// @Failure 400 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs [post]
func (h *Handler) EnqueueJob(w http.ResponseWriter, r *http.Request) {
	var dto enqueueJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	job, enqueued, err := h.jobSvc.Enqueue(r.Context(), service.EnqueueRequest{
		SkillID:     dto.SkillID,
		PayloadKind: dto.PayloadKind,
		SourceLang:  dto.SourceLang,
		TargetLang:  dto.TargetLang,
		Text:        dto.Text,
		Data:        dto.Data,
		Path:        dto.Path,
	})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, enqueueJobResp{ID: job.ID, Enqueued: enqueued})
}

// ScanSkill godoc
// @Summary Enqueue missing translations for a skill
// @Description Scans the skill and enqueues a job for every field that has a source-language value but no target-language translation.
// @Tags skills
// @Accept json
// @Produce json
// @Param id path string true "skill id"
// @Param request body scanSkillDTO true "language pair"
// @Success 200 {object} scanSkillResp
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /skills/{id}/translations [post]
func (h *Handler) ScanSkill(w http.ResponseWriter, r *http.Request) {
	skillID := chi.URLParam(r, "id")

	var dto scanSkillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.jobSvc.EnqueueMissing(r.Context(), skillID, dto.SourceLang, dto.TargetLang)
	if errors.Is(err, postgresql.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "skill not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, scanSkillResp{Enqueued: ids})
}

// GetJob godoc
// @Summary Get job by id
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} jobResp
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	j, err := h.jobSvc.GetJob(r.Context(), id)
	if errors.Is(err, postgresql.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, jobResp{
		ID:          j.ID,
		SkillID:     j.SkillID,
		PayloadKind: j.PayloadKind,
		SourceLang:  j.SourceLang,
		TargetLang:  j.TargetLang,
		Status:      j.Status,
		Attempts:    j.Attempts,
		LockedBy:    j.LockedBy,
		LastError:   j.LastError,
		CreatedAt:   j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   j.UpdatedAt.Format(time.RFC3339),
	})
}

// ReloadEngines godoc
// @Summary Invalidate the engine configuration cache on all workers
// @Tags engines
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 500 {object} apiError
// @Router /engines/reload [post]
func (h *Handler) ReloadEngines(w http.ResponseWriter, r *http.Request) {
	if err := h.reloader.NotifyReload(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload requested"})
}
