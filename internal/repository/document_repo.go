package repository

import (
	"context"
	"encoding/json"
	"time"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

type documentModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	InspectionID int64     `gorm:"column:inspection_id;index"`
	Kind         string    `gorm:"column:kind"`
	Tokens       []byte    `gorm:"column:tokens;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (documentModel) TableName() string { return "documents" }

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	tokens, err := json.Marshal(d.Tokens)
	if err != nil {
		return err
	}
	m := documentModel{
		InspectionID: d.InspectionID,
		Kind:         d.Kind,
		Tokens:       tokens,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	d.ID = m.ID
	d.Created = m.CreatedAt
	return nil
}

// UpdateTokens rewrites the token list, used to record accesses.
func (r *DocumentRepository) UpdateTokens(ctx context.Context, id int64, tokens []domain.AccessToken) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).
		Model(&documentModel{}).
		Where("id = ?", id).
		Update("tokens", raw)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var m documentModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	d := &domain.Document{
		ID:           m.ID,
		InspectionID: m.InspectionID,
		Kind:         m.Kind,
		Created:      m.CreatedAt,
	}
	if len(m.Tokens) > 0 {
		if err := json.Unmarshal(m.Tokens, &d.Tokens); err != nil {
			return nil, err
		}
	}
	return d, nil
}
