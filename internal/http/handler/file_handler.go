package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"go.uber.org/zap"
)

// maxUploadSize caps multipart uploads at 50 MB
const maxUploadSize = 50 << 20

type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// List godoc
// @Summary List files
// @Description Get the client's files, optionally narrowed to one project
// @Tags Files
// @Produce json
// @Param project query string false "Project ID to filter by"
// @Success 200 {array} domain.FileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	selected, err := parseProjectQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	files, err := h.fileService.List(r.Context(), selected)
	if err != nil {
		h.logger.Error("failed to list files", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// Upload godoc
// @Summary Upload a file
// @Description Upload a file via multipart form. The file field is named "file"; an optional "projectId" field scopes it to a project.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param projectId formData string false "Project ID"
// @Success 201 {object} domain.FileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	var projectID *uuid.UUID
	if raw := r.FormValue("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid project ID")
			return
		}
		projectID = &id
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto, err := h.fileService.Upload(r.Context(), projectID, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload file",
			zap.String("filename", header.Filename), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// Download godoc
// @Summary Download a file
// @Description Stream a file's content
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	file, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to download file",
			zap.String("file_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted",
			zap.String("file_id", id.String()), zap.Error(err))
	}
}

// Review godoc
// @Summary Review a file
// @Description Approve or reject a pending file shared by the agency
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID"
// @Param request body domain.ReviewFileRequest true "Review verdict"
// @Success 200 {object} domain.FileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /files/{id}/review [post]
func (h *FileHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	var req domain.ReviewFileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.fileService.Review(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to review file",
			zap.String("file_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete godoc
// @Summary Delete a file
// @Description Remove a file record and its stored content. Agency only.
// @Tags Files
// @Param id path string true "File ID"
// @Success 204
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete file",
			zap.String("file_id", id.String()), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
