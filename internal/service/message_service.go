package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
)

// MessageService serves the message thread between the agency and a
// client. Read state is per side: a message is unread until the other
// side marks the thread read.
type MessageService struct {
	messageRepo     *repository.MessageRepository
	settingsRepo    *repository.PortalSettingsRepository
	activityService *ActivityService
	logger          *zap.Logger
}

// NewMessageService creates a new MessageService instance
func NewMessageService(
	messageRepo *repository.MessageRepository,
	settingsRepo *repository.PortalSettingsRepository,
	activityService *ActivityService,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		messageRepo:     messageRepo,
		settingsRepo:    settingsRepo,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns the client's message thread, newest first
func (s *MessageService) List(ctx context.Context, page, pageSize int) ([]domain.MessageDTO, int64, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, 0, err
	}
	if !settings.Modules.Enabled(domain.ModuleMessages) {
		return nil, 0, ErrModuleDisabled
	}

	messages, total, err := s.messageRepo.ListByClient(ctx, viewer.ClientID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	dtos := make([]domain.MessageDTO, 0, len(messages))
	for i := range messages {
		dtos = append(dtos, mapper.ToMessageDTO(&messages[i]))
	}
	return dtos, total, nil
}

// Send posts a message to the thread as the viewer
func (s *MessageService) Send(ctx context.Context, req *domain.CreateMessageRequest) (*domain.MessageDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleMessages) {
		return nil, ErrModuleDisabled
	}

	message := &domain.Message{
		WorkspaceID: viewer.WorkspaceID,
		ClientID:    viewer.ClientID,
		ProjectID:   req.ProjectID,
		SenderRole:  viewer.Role,
		SenderName:  viewer.DisplayName,
		Body:        req.Body,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetMessage, message.ID,
		&message.ClientID, "Message sent", "")

	dto := mapper.ToMessageDTO(message)
	return &dto, nil
}

// MarkRead stamps every unread message from the other side as read
func (s *MessageService) MarkRead(ctx context.Context) error {
	viewer := auth.MustFromContext(ctx)
	if err := s.messageRepo.MarkRead(ctx, viewer.ClientID, viewer.Role, time.Now()); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// CountUnread returns the viewer's unread message count
func (s *MessageService) CountUnread(ctx context.Context) (int64, error) {
	viewer := auth.MustFromContext(ctx)
	count, err := s.messageRepo.CountUnread(ctx, viewer.ClientID, viewer.Role)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
