package repository

import (
	"time"

	"github.com/hireos/hireos/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) Enqueue(q *model.QueuedNotification) error {
	return r.db.Create(q).Error
}

// ClaimDue returns unprocessed rows whose ProcessAfter has passed.
func (r *NotificationRepository) ClaimDue(limit int) ([]model.QueuedNotification, error) {
	var due []model.QueuedNotification
	err := r.db.Where("processed_at IS NULL AND process_after <= ?", time.Now()).
		Order("process_after ASC").Limit(limit).Find(&due).Error
	return due, err
}

func (r *NotificationRepository) MarkProcessed(q *model.QueuedNotification) error {
	now := time.Now()
	q.ProcessedAt = &now
	return r.db.Save(q).Error
}

// MarkFailed records the error and retires the row; the queue is
// at-most-once and failed sends are not retried.
func (r *NotificationRepository) MarkFailed(q *model.QueuedNotification, failure error) error {
	now := time.Now()
	q.ProcessedAt = &now
	q.LastError = failure.Error()
	return r.db.Save(q).Error
}
