package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *MessageRepository) ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Message, int64, error) {
	var messages []domain.Message
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Message{}).Where("client_id = ?", clientID)
	query = ApplyWorkspaceFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&messages).Error

	return messages, total, err
}

// CountUnread counts messages sent by the other side that the viewer
// has not read yet.
func (r *MessageRepository) CountUnread(ctx context.Context, clientID uuid.UUID, viewer domain.ViewerRole) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("client_id = ? AND sender_role <> ? AND read_at IS NULL", clientID, viewer)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Count(&count).Error
	return count, err
}

// MarkRead stamps all unread messages from the other side as read
func (r *MessageRepository) MarkRead(ctx context.Context, clientID uuid.UUID, viewer domain.ViewerRole, at time.Time) error {
	query := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("client_id = ? AND sender_role <> ? AND read_at IS NULL", clientID, viewer)
	query = ApplyWorkspaceFilter(ctx, query)
	return query.Update("read_at", at).Error
}
