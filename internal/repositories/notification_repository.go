package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, plan pagination.Plan) (pagination.Page[models.NotificationView], error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, plan pagination.Plan) (pagination.Page[models.NotificationView], error) {
	l := listing{
		name:     "notifications",
		idColumn: "notifications.id",
		base: func(ctx context.Context) *gorm.DB {
			return r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
		},
		fetch: func(q *gorm.DB) *gorm.DB {
			return q.Preload("Actor.Photos", leadPhoto)
		},
	}
	rows, err := readPage(ctx, l, plan, func(n models.Notification) uint { return n.ID })
	if err != nil {
		return pagination.Page[models.NotificationView]{}, err
	}
	return pagination.Map(rows, func(n models.Notification) models.NotificationView {
		view := models.NotificationView{Notification: n}
		if n.Actor != nil {
			actor := n.Actor.ToCompact()
			view.Actor = &actor
		}
		return view
	}), nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}
