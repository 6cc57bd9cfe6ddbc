package repository

import (
	"context"
	"encoding/json"
	"time"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

type outboxModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	AccountID      int64      `gorm:"column:account_id;index"`
	Type           string     `gorm:"column:type"`
	RecipientName  string     `gorm:"column:recipient_name"`
	RecipientEmail string     `gorm:"column:recipient_email"`
	Payload        []byte     `gorm:"column:payload;type:text"`
	Status         string     `gorm:"column:status;index;default:pending"`
	Attempts       int        `gorm:"column:attempts;default:0"`
	LastErr        *string    `gorm:"column:last_error"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	SentAt         *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "notification_outbox" }

func toDomainNotification(m outboxModel) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:             m.ID,
		AccountID:      m.AccountID,
		Type:           domain.NotificationType(m.Type),
		RecipientName:  m.RecipientName,
		RecipientEmail: m.RecipientEmail,
		Status:         m.Status,
		Attempts:       m.Attempts,
		LastErr:        strVal(m.LastErr),
		Created:        m.CreatedAt,
		SentAt:         m.SentAt,
	}
	if len(m.Payload) > 0 {
		if err := json.Unmarshal(m.Payload, &n.Payload); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (r *OutboxRepository) Enqueue(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	m := outboxModel{
		AccountID:      n.AccountID,
		Type:           string(n.Type),
		RecipientName:  n.RecipientName,
		RecipientEmail: n.RecipientEmail,
		Payload:        payload,
		Status:         domain.NotificationPending,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	n.ID = m.ID
	n.Status = m.Status
	n.Created = m.CreatedAt
	return nil
}

// Pending returns up to limit undelivered rows, oldest first. Failed rows
// are included so the dispatcher retries them.
func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	var models []outboxModel
	tx := r.db.WithContext(ctx).
		Where("status IN ?", []string{domain.NotificationPending, domain.NotificationFailed}).
		Order("id").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.Notification, 0, len(models))
	for _, m := range models {
		n, err := toDomainNotification(m)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	now := time.Now()
	tx := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   domain.NotificationSent,
			"sent_at":  &now,
			"attempts": gorm.Expr("attempts + 1"),
		})
	return tx.Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	tx := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     domain.NotificationFailed,
			"last_error": reason,
			"attempts":   gorm.Expr("attempts + 1"),
		})
	return tx.Error
}

// PruneSent deletes delivered rows older than the cutoff and returns the
// number removed.
func (r *OutboxRepository) PruneSent(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", domain.NotificationSent, before).
		Delete(&outboxModel{})
	return tx.RowsAffected, tx.Error
}
