package repository

import (
	"context"
	"encoding/json"
	"strings"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

type clientModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	AccountID    int64   `gorm:"column:account_id;index"`
	FirstName    string  `gorm:"column:first_name"`
	LastName     string  `gorm:"column:last_name"`
	Email        string  `gorm:"column:email;index"`
	Phone        string  `gorm:"column:phone"`
	Address      *string `gorm:"column:address"`
	City         *string `gorm:"column:city"`
	State        *string `gorm:"column:state"`
	Zip          *string `gorm:"column:zip"`
	PasswordHash string  `gorm:"column:password_hash"`
	Inspections  []byte  `gorm:"column:inspection_ids;type:text"`
}

func (clientModel) TableName() string { return "clients" }

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDomainClient(m clientModel) (*domain.Client, error) {
	c := &domain.Client{
		ID:           m.ID,
		AccountID:    m.AccountID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		Phone:        m.Phone,
		Address:      strVal(m.Address),
		City:         strVal(m.City),
		State:        strVal(m.State),
		Zip:          strVal(m.Zip),
		PasswordHash: m.PasswordHash,
	}
	if len(m.Inspections) > 0 {
		if err := json.Unmarshal(m.Inspections, &c.InspectionIDs); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func toClientModel(c *domain.Client) (clientModel, error) {
	inspections, err := json.Marshal(c.InspectionIDs)
	if err != nil {
		return clientModel{}, err
	}
	return clientModel{
		ID:           c.ID,
		AccountID:    c.AccountID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        strings.TrimSpace(strings.ToLower(c.Email)),
		Phone:        c.Phone,
		Address:      strPtr(c.Address),
		City:         strPtr(c.City),
		State:        strPtr(c.State),
		Zip:          strPtr(c.Zip),
		PasswordHash: c.PasswordHash,
		Inspections:  inspections,
	}, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	m, err := toClientModel(c)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	c.ID = m.ID
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var m clientModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainClient(m)
}

// FindByEmail returns the account's client with the given email, or nil
// when no record matches.
func (r *ClientRepository) FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Client, error) {
	var m clientModel
	tx := r.db.WithContext(ctx).
		Where("account_id = ? AND email = ?", accountID, strings.TrimSpace(strings.ToLower(email))).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainClient(m)
}

func (r *ClientRepository) AppendInspection(ctx context.Context, clientID, inspectionID int64) error {
	c, err := r.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(append(c.InspectionIDs, inspectionID))
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).
		Model(&clientModel{}).
		Where("id = ?", clientID).
		Update("inspection_ids", raw)
	return tx.Error
}
