package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
)

// ActivityService records and lists the portal event log
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Record writes an activity entry for the acting viewer. The log is a
// side channel: a failed write is logged and swallowed so it never
// fails the operation being recorded.
func (s *ActivityService) Record(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, clientID *uuid.UUID, title, body string) {
	viewer, ok := auth.FromContext(ctx)
	if !ok {
		return
	}

	activity := &domain.Activity{
		WorkspaceID: viewer.WorkspaceID,
		ClientID:    clientID,
		TargetType:  targetType,
		TargetID:    targetID,
		Title:       title,
		Body:        body,
		ActorRole:   viewer.Role,
		ActorName:   viewer.DisplayName,
		OccurredAt:  time.Now(),
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("target_type", string(targetType)),
			zap.String("target_id", targetID.String()),
			zap.Error(err),
		)
	}
}

// List returns activity entries for the workspace, newest first,
// optionally narrowed to one client.
func (s *ActivityService) List(ctx context.Context, clientID *uuid.UUID, page, pageSize int) ([]domain.ActivityDTO, int64, error) {
	activities, total, err := s.activityRepo.List(ctx, clientID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.ActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, mapper.ToActivityDTO(&activities[i]))
	}
	return dtos, total, nil
}
