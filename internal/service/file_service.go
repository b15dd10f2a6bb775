package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"github.com/jolix/portal-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService serves the file views of a client portal: uploads,
// downloads and the client review flow.
type FileService struct {
	fileRepo        *repository.FileRepository
	projectRepo     *repository.ProjectRepository
	settingsRepo    *repository.PortalSettingsRepository
	activityService *ActivityService
	storage         storage.Storage
	logger          *zap.Logger
}

// NewFileService creates a new FileService instance
func NewFileService(
	fileRepo *repository.FileRepository,
	projectRepo *repository.ProjectRepository,
	settingsRepo *repository.PortalSettingsRepository,
	activityService *ActivityService,
	storage storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:        fileRepo,
		projectRepo:     projectRepo,
		settingsRepo:    settingsRepo,
		activityService: activityService,
		storage:         storage,
		logger:          logger,
	}
}

// List returns the client's files surviving the project filter
func (s *FileService) List(ctx context.Context, selectedProject *uuid.UUID) ([]domain.FileDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleFiles) {
		return nil, ErrModuleDisabled
	}

	files, err := s.fileRepo.ListByClient(ctx, viewer.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	files = domain.FilterVisible[domain.File](files, selectedProject, settings.ProjectVisibility)

	dtos := make([]domain.FileDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, mapper.ToFileDTO(&files[i]))
	}
	return dtos, nil
}

// Upload stores a file and attaches it to the viewer's client,
// optionally scoped to a project. Client uploads are marked as such;
// they never enter the client review queue.
func (s *FileService) Upload(ctx context.Context, projectID *uuid.UUID, filename, contentType string, data io.Reader) (*domain.FileDTO, error) {
	viewer := auth.MustFromContext(ctx)

	if projectID != nil {
		if _, err := s.projectRepo.GetByID(ctx, *projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: project does not exist", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to verify project: %w", err)
		}
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &domain.File{
		WorkspaceID:    viewer.WorkspaceID,
		ClientID:       viewer.ClientID,
		ProjectID:      projectID,
		Filename:       filename,
		ContentType:    contentType,
		Size:           size,
		StoragePath:    storagePath,
		ApprovalStatus: domain.FileApprovalPending,
		SentByClient:   viewer.IsClient(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned blob",
				zap.String("storage_path", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetFile, file.ID,
		&file.ClientID, "File uploaded", filename)
	s.logger.Info("file uploaded",
		zap.String("file_id", file.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Download streams a file's content. The caller owns the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.File, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}
	return file, reader, nil
}

// Review records the client's verdict on a pending agency file.
// Only pending files the client did not upload are reviewable.
func (s *FileService) Review(ctx context.Context, id uuid.UUID, req *domain.ReviewFileRequest) (*domain.FileDTO, error) {
	viewer := auth.MustFromContext(ctx)

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file.ApprovalStatus != domain.FileApprovalPending {
		return nil, ErrFileNotReviewable
	}
	if file.SentByClient && viewer.IsClient() {
		return nil, ErrFileNotReviewable
	}

	now := time.Now()
	if req.Approved {
		file.ApprovalStatus = domain.FileApprovalApproved
	} else {
		file.ApprovalStatus = domain.FileApprovalRejected
	}
	file.ReviewedAt = &now
	file.ReviewNote = req.Note

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to save file review: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetFile, file.ID,
		&file.ClientID, fmt.Sprintf("File %s", file.ApprovalStatus), file.Filename)
	s.logger.Info("file reviewed",
		zap.String("file_id", file.ID.String()),
		zap.String("verdict", string(file.ApprovalStatus)),
	)

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Delete removes a file record and its blob. Agency only.
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	viewer := auth.MustFromContext(ctx)
	if !viewer.IsAgency() {
		return ErrPermissionDenied
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete blob",
			zap.String("storage_path", file.StoragePath), zap.Error(err))
	}
	return nil
}
