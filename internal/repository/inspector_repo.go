package repository

import (
	"context"
	"encoding/json"
	"strings"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type InspectorRepository struct {
	db *gorm.DB
}

func NewInspectorRepository(db *gorm.DB) *InspectorRepository {
	return &InspectorRepository{db: db}
}

type inspectorModel struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	AccountID    int64  `gorm:"column:account_id;index"`
	Email        string `gorm:"column:email;index"`
	PasswordHash string `gorm:"column:password_hash"`
	FirstName    string `gorm:"column:first_name"`
	LastName     string `gorm:"column:last_name"`
	Phone        string `gorm:"column:phone"`
	Timeslots    []byte `gorm:"column:timeslots;type:text"`
	TimeOff      []byte `gorm:"column:timeoff;type:text"`
	Inspections  []byte `gorm:"column:inspection_ids;type:text"`
}

func (inspectorModel) TableName() string { return "inspectors" }

func toDomainInspector(m inspectorModel) (*domain.Inspector, error) {
	i := &domain.Inspector{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
	}
	if len(m.Timeslots) > 0 {
		if err := json.Unmarshal(m.Timeslots, &i.Timeslots); err != nil {
			return nil, err
		}
	}
	if len(m.TimeOff) > 0 {
		if err := json.Unmarshal(m.TimeOff, &i.TimeOff); err != nil {
			return nil, err
		}
	}
	if len(m.Inspections) > 0 {
		if err := json.Unmarshal(m.Inspections, &i.InspectionIDs); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func toInspectorModel(i *domain.Inspector) (inspectorModel, error) {
	timeslots, err := json.Marshal(i.Timeslots)
	if err != nil {
		return inspectorModel{}, err
	}
	timeoff, err := json.Marshal(i.TimeOff)
	if err != nil {
		return inspectorModel{}, err
	}
	inspections, err := json.Marshal(i.InspectionIDs)
	if err != nil {
		return inspectorModel{}, err
	}
	return inspectorModel{
		ID:           i.ID,
		AccountID:    i.AccountID,
		Email:        strings.TrimSpace(strings.ToLower(i.Email)),
		PasswordHash: i.PasswordHash,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Phone:        i.Phone,
		Timeslots:    timeslots,
		TimeOff:      timeoff,
		Inspections:  inspections,
	}, nil
}

func (r *InspectorRepository) Create(ctx context.Context, i *domain.Inspector) error {
	m, err := toInspectorModel(i)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	i.ID = m.ID
	return nil
}

func (r *InspectorRepository) GetByID(ctx context.Context, id int64) (*domain.Inspector, error) {
	var m inspectorModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainInspector(m)
}

func (r *InspectorRepository) FindByEmail(ctx context.Context, email string) (*domain.Inspector, error) {
	var m inspectorModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainInspector(m)
}

func (r *InspectorRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Inspector, error) {
	var models []inspectorModel
	tx := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.Inspector, 0, len(models))
	for _, m := range models {
		i, err := toDomainInspector(m)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func (r *InspectorRepository) SaveTimeslots(ctx context.Context, inspectorID int64, t domain.WeeklyTimeslots) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, inspectorID, "timeslots", raw)
}

func (r *InspectorRepository) SaveTimeOff(ctx context.Context, inspectorID int64, entries []domain.TimeOffEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, inspectorID, "timeoff", raw)
}

func (r *InspectorRepository) AppendInspection(ctx context.Context, inspectorID, inspectionID int64) error {
	i, err := r.GetByID(ctx, inspectorID)
	if err != nil {
		return err
	}
	ids := append(i.InspectionIDs, inspectionID)
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, inspectorID, "inspection_ids", raw)
}

func (r *InspectorRepository) updateColumn(ctx context.Context, id int64, column string, raw []byte) error {
	tx := r.db.WithContext(ctx).
		Model(&inspectorModel{}).
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
