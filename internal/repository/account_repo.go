package repository

import (
	"context"
	"encoding/json"
	"time"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	Name              string    `gorm:"column:name"`
	Email             string    `gorm:"column:email"`
	InspectionCounter int64     `gorm:"column:inspection_counter;default:0"`
	Pricing           []byte    `gorm:"column:pricing;type:text"`
}

func (accountModel) TableName() string { return "accounts" }

func toDomainAccount(m accountModel) (*domain.Account, error) {
	a := &domain.Account{
		ID:                m.ID,
		Created:           m.CreatedAt,
		Name:              m.Name,
		Email:             m.Email,
		InspectionCounter: m.InspectionCounter,
	}
	if len(m.Pricing) > 0 {
		if err := json.Unmarshal(m.Pricing, &a.Pricing); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func toAccountModel(a *domain.Account) (accountModel, error) {
	pricing, err := json.Marshal(a.Pricing)
	if err != nil {
		return accountModel{}, err
	}
	return accountModel{
		ID:                a.ID,
		CreatedAt:         a.Created,
		Name:              a.Name,
		Email:             a.Email,
		InspectionCounter: a.InspectionCounter,
		Pricing:           pricing,
	}, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	m, err := toAccountModel(a)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	a.ID = m.ID
	a.Created = m.CreatedAt
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var m accountModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAccount(m)
}

// NextInspectionNumber increments the account's inspection counter in a
// single statement and returns the new value. Concurrent bookings on the
// same account can never observe the same number.
func (r *AccountRepository) NextInspectionNumber(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	q := `
UPDATE accounts
SET inspection_counter = inspection_counter + 1
WHERE id = ?
RETURNING inspection_counter
`
	tx := r.db.WithContext(ctx).Raw(q, accountID).Scan(&n)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *AccountRepository) UpdatePricing(ctx context.Context, accountID int64, cfg domain.PricingConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("id = ?", accountID).
		Update("pricing", raw)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
