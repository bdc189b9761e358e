package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists notifications in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&notificationRecord{})
	}
	return repo
}

type notificationRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	RecipientID *int64    `gorm:"column:recipient_id;index"`
	Type        string    `gorm:"column:type;type:varchar(16)"`
	Title       string    `gorm:"column:title;size:255"`
	Message     string    `gorm:"column:message;type:text"`
	Link        string    `gorm:"column:link;size:255"`
	IsRead      bool      `gorm:"column:is_read;index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

func (r *Repository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, errors.New("notification is nil")
	}
	record := toRecord(notification)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListForRecipient(ctx context.Context, recipient domain.Recipient) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []notificationRecord
	if err := r.db.WithContext(ctx).
		Where(visibilityClause(recipient), recipient.UserID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Notification, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

// MarkRead flips is_read for one visible notification. Re-marking an already
// read row still affects it, so the operation stays idempotent.
func (r *Repository) MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&notificationRecord{}).
		Where("id = ?", id).
		Where(visibilityClause(recipient), recipient.UserID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		r.db.WithContext(ctx).Model(&notificationRecord{}).
			Where("id = ?", id).
			Where(visibilityClause(recipient), recipient.UserID).
			Count(&exists)
		if exists == 0 {
			return ports.ErrNotFound
		}
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipient domain.Recipient) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&notificationRecord{}).
		Where(visibilityClause(recipient), recipient.UserID).
		Update("is_read", true).Error
}

func (r *Repository) Delete(ctx context.Context, id int64, recipient domain.Recipient) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(visibilityClause(recipient), recipient.UserID).
		Delete(&notificationRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) CountUnread(ctx context.Context, recipient domain.Recipient) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationRecord{}).
		Where(visibilityClause(recipient), recipient.UserID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// visibilityClause mirrors domain.Notification.VisibleTo: broadcast rows
// (NULL recipient) are only visible to admin recipients.
func visibilityClause(recipient domain.Recipient) string {
	if recipient.Admin {
		return "(recipient_id = ? OR recipient_id IS NULL)"
	}
	return "recipient_id = ?"
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres notification repository not configured")
	}
	return nil
}

func toRecord(n *domain.Notification) notificationRecord {
	return notificationRecord{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func (r notificationRecord) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:          r.ID,
		RecipientID: r.RecipientID,
		Type:        domain.Type(r.Type),
		Title:       r.Title,
		Message:     r.Message,
		Link:        r.Link,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}
}
