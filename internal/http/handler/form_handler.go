package handler

import (
	"net/http"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

type FormHandler struct {
	formService *service.FormService
	logger      *zap.Logger
}

func NewFormHandler(formService *service.FormService, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		formService: formService,
		logger:      logger,
	}
}

// List godoc
// @Summary List forms
// @Description Get the published forms addressed to the client, each flagged pending or done for the viewing respondent
// @Tags Forms
// @Produce json
// @Param project query string false "Project ID to filter by"
// @Success 200 {array} domain.FormDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /forms [get]
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	selected, err := parseProjectQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	forms, err := h.formService.List(r.Context(), selected)
	if err != nil {
		h.logger.Error("failed to list forms", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, forms)
}

// Get godoc
// @Summary Get a form
// @Description Get one form with the viewer's pending state
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} domain.FormDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /forms/{id} [get]
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form ID")
		return
	}

	form, err := h.formService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, form)
}

// Submit godoc
// @Summary Submit a form
// @Description Record the viewer's answers. A completed submission closes the form for this respondent.
// @Tags Forms
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Param request body domain.SubmitFormRequest true "Answers"
// @Success 201 {object} domain.FormSubmissionDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /forms/{id}/submissions [post]
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form ID")
		return
	}

	var req domain.SubmitFormRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	submission, err := h.formService.Submit(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to submit form",
			zap.String("form_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, submission)
}
