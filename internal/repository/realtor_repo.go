package repository

import (
	"context"
	"encoding/json"
	"strings"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type RealtorRepository struct {
	db *gorm.DB
}

func NewRealtorRepository(db *gorm.DB) *RealtorRepository {
	return &RealtorRepository{db: db}
}

type realtorModel struct {
	ID                 int64   `gorm:"column:id;primaryKey"`
	AccountID          int64   `gorm:"column:account_id;index"`
	FirstName          string  `gorm:"column:first_name"`
	LastName           string  `gorm:"column:last_name"`
	Email              string  `gorm:"column:email;index"`
	Phone              string  `gorm:"column:phone"`
	Affiliation        *string `gorm:"column:affiliation"`
	PrimaryPhone       *string `gorm:"column:primary_phone"`
	PrimaryPhoneType   *string `gorm:"column:primary_phone_type"`
	SecondaryPhone     *string `gorm:"column:secondary_phone"`
	SecondaryPhoneType *string `gorm:"column:secondary_phone_type"`
	Address            *string `gorm:"column:address"`
	City               *string `gorm:"column:city"`
	State              *string `gorm:"column:state"`
	Zip                *string `gorm:"column:zip"`
	PasswordHash       string  `gorm:"column:password_hash"`
	Inspections        []byte  `gorm:"column:inspection_ids;type:text"`
	Clients            []byte  `gorm:"column:client_ids;type:text"`
}

func (realtorModel) TableName() string { return "realtors" }

func toDomainRealtor(m realtorModel) (*domain.Realtor, error) {
	rl := &domain.Realtor{
		ID:                 m.ID,
		AccountID:          m.AccountID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		Phone:              m.Phone,
		Affiliation:        strVal(m.Affiliation),
		PrimaryPhone:       strVal(m.PrimaryPhone),
		PrimaryPhoneType:   strVal(m.PrimaryPhoneType),
		SecondaryPhone:     strVal(m.SecondaryPhone),
		SecondaryPhoneType: strVal(m.SecondaryPhoneType),
		Address:            strVal(m.Address),
		City:               strVal(m.City),
		State:              strVal(m.State),
		Zip:                strVal(m.Zip),
		PasswordHash:       m.PasswordHash,
	}
	if len(m.Inspections) > 0 {
		if err := json.Unmarshal(m.Inspections, &rl.InspectionIDs); err != nil {
			return nil, err
		}
	}
	if len(m.Clients) > 0 {
		if err := json.Unmarshal(m.Clients, &rl.ClientIDs); err != nil {
			return nil, err
		}
	}
	return rl, nil
}

func toRealtorModel(rl *domain.Realtor) (realtorModel, error) {
	inspections, err := json.Marshal(rl.InspectionIDs)
	if err != nil {
		return realtorModel{}, err
	}
	clients, err := json.Marshal(rl.ClientIDs)
	if err != nil {
		return realtorModel{}, err
	}
	return realtorModel{
		ID:                 rl.ID,
		AccountID:          rl.AccountID,
		FirstName:          rl.FirstName,
		LastName:           rl.LastName,
		Email:              strings.TrimSpace(strings.ToLower(rl.Email)),
		Phone:              rl.Phone,
		Affiliation:        strPtr(rl.Affiliation),
		PrimaryPhone:       strPtr(rl.PrimaryPhone),
		PrimaryPhoneType:   strPtr(rl.PrimaryPhoneType),
		SecondaryPhone:     strPtr(rl.SecondaryPhone),
		SecondaryPhoneType: strPtr(rl.SecondaryPhoneType),
		Address:            strPtr(rl.Address),
		City:               strPtr(rl.City),
		State:              strPtr(rl.State),
		Zip:                strPtr(rl.Zip),
		PasswordHash:       rl.PasswordHash,
		Inspections:        inspections,
		Clients:            clients,
	}, nil
}

func (r *RealtorRepository) Create(ctx context.Context, rl *domain.Realtor) error {
	m, err := toRealtorModel(rl)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	rl.ID = m.ID
	return nil
}

func (r *RealtorRepository) GetByID(ctx context.Context, id int64) (*domain.Realtor, error) {
	var m realtorModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRealtor(m)
}

// FindByEmail returns the account's realtor with the given email, or nil
// when no record matches.
func (r *RealtorRepository) FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Realtor, error) {
	var m realtorModel
	tx := r.db.WithContext(ctx).
		Where("account_id = ? AND email = ?", accountID, strings.TrimSpace(strings.ToLower(email))).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainRealtor(m)
}

func (r *RealtorRepository) AppendInspection(ctx context.Context, realtorID, inspectionID int64) error {
	rl, err := r.GetByID(ctx, realtorID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(append(rl.InspectionIDs, inspectionID))
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, realtorID, "inspection_ids", raw)
}

// AppendClient links a client to the realtor. Already-linked clients are
// not duplicated.
func (r *RealtorRepository) AppendClient(ctx context.Context, realtorID, clientID int64) error {
	rl, err := r.GetByID(ctx, realtorID)
	if err != nil {
		return err
	}
	for _, id := range rl.ClientIDs {
		if id == clientID {
			return nil
		}
	}
	raw, err := json.Marshal(append(rl.ClientIDs, clientID))
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, realtorID, "client_ids", raw)
}

func (r *RealtorRepository) updateColumn(ctx context.Context, id int64, column string, raw []byte) error {
	tx := r.db.WithContext(ctx).
		Model(&realtorModel{}).
		Where("id = ?", id).
		Update(column, raw)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
