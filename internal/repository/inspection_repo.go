package repository

import (
	"context"
	"encoding/json"
	"time"

	"inspectdesk/internal/domain"

	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

type inspectionModel struct {
	ID     int64 `gorm:"column:id;primaryKey"`
	Number int64 `gorm:"column:number"`

	AccountID   int64  `gorm:"column:account_id;index"`
	InspectorID int64  `gorm:"column:inspector_id;uniqueIndex:idx_no_double_booking"`
	Client1ID   *int64 `gorm:"column:client1_id"`
	Client2ID   *int64 `gorm:"column:client2_id"`
	RealtorID   *int64 `gorm:"column:realtor_id"`

	Address1   string `gorm:"column:address1"`
	Address2   *string `gorm:"column:address2"`
	City       string `gorm:"column:city"`
	State      string `gorm:"column:state"`
	Zip        string `gorm:"column:zip"`
	Sqft       int    `gorm:"column:sqft"`
	YearBuilt  int    `gorm:"column:year_built"`
	Foundation string `gorm:"column:foundation"`

	MainService        string `gorm:"column:main_service"`
	AdditionalServices []byte `gorm:"column:additional_services;type:text"`

	Date       string `gorm:"column:date;uniqueIndex:idx_no_double_booking"`
	TimeMinute int    `gorm:"column:time_minute;uniqueIndex:idx_no_double_booking"`

	DetailsLocked bool   `gorm:"column:details_locked"`
	InvoiceSent   bool   `gorm:"column:invoice_sent"`
	Invoiced      float64 `gorm:"column:invoiced"`
	Balance       float64 `gorm:"column:balance"`
	Pricing       []byte  `gorm:"column:pricing;type:text"`
	Payments      []byte  `gorm:"column:payments;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (inspectionModel) TableName() string { return "inspections" }

func toDomainInspection(m inspectionModel) (*domain.Inspection, error) {
	i := &domain.Inspection{
		ID:          m.ID,
		Number:      m.Number,
		AccountID:   m.AccountID,
		InspectorID: m.InspectorID,
		Client1ID:   m.Client1ID,
		Client2ID:   m.Client2ID,
		RealtorID:   m.RealtorID,
		Property: domain.Property{
			Address1:   m.Address1,
			Address2:   strVal(m.Address2),
			City:       m.City,
			State:      m.State,
			Zip:        m.Zip,
			Sqft:       m.Sqft,
			YearBuilt:  m.YearBuilt,
			Foundation: m.Foundation,
		},
		MainService:   m.MainService,
		Date:          m.Date,
		TimeMinute:    m.TimeMinute,
		DetailsLocked: m.DetailsLocked,
		Payment: domain.Payment{
			InvoiceSent: m.InvoiceSent,
			Invoiced:    m.Invoiced,
			Balance:     m.Balance,
		},
		Scheduled: m.CreatedAt,
	}
	if len(m.AdditionalServices) > 0 {
		if err := json.Unmarshal(m.AdditionalServices, &i.AdditionalServices); err != nil {
			return nil, err
		}
	}
	if len(m.Pricing) > 0 {
		var inv domain.Invoice
		if err := json.Unmarshal(m.Pricing, &inv); err != nil {
			return nil, err
		}
		i.Payment.Pricing = &inv
	}
	if len(m.Payments) > 0 {
		if err := json.Unmarshal(m.Payments, &i.Payment.History); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func toInspectionModel(i *domain.Inspection) (inspectionModel, error) {
	additional, err := json.Marshal(i.AdditionalServices)
	if err != nil {
		return inspectionModel{}, err
	}
	m := inspectionModel{
		ID:                 i.ID,
		Number:             i.Number,
		AccountID:          i.AccountID,
		InspectorID:        i.InspectorID,
		Client1ID:          i.Client1ID,
		Client2ID:          i.Client2ID,
		RealtorID:          i.RealtorID,
		Address1:           i.Property.Address1,
		Address2:           strPtr(i.Property.Address2),
		City:               i.Property.City,
		State:              i.Property.State,
		Zip:                i.Property.Zip,
		Sqft:               i.Property.Sqft,
		YearBuilt:          i.Property.YearBuilt,
		Foundation:         i.Property.Foundation,
		MainService:        i.MainService,
		AdditionalServices: additional,
		Date:               i.Date,
		TimeMinute:         i.TimeMinute,
		DetailsLocked:      i.DetailsLocked,
		InvoiceSent:        i.Payment.InvoiceSent,
		Invoiced:           i.Payment.Invoiced,
		Balance:            i.Payment.Balance,
		CreatedAt:          i.Scheduled,
	}
	if i.Payment.Pricing != nil {
		raw, err := json.Marshal(i.Payment.Pricing)
		if err != nil {
			return inspectionModel{}, err
		}
		m.Pricing = raw
	}
	if len(i.Payment.History) > 0 {
		raw, err := json.Marshal(i.Payment.History)
		if err != nil {
			return inspectionModel{}, err
		}
		m.Payments = raw
	}
	return m, nil
}

// Create inserts the inspection. The idx_no_double_booking unique index on
// (inspector_id, date, time_minute) makes the insert the authoritative
// double-booking check; callers map the unique violation to an
// availability error.
func (r *InspectionRepository) Create(ctx context.Context, i *domain.Inspection) error {
	m, err := toInspectionModel(i)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	i.ID = m.ID
	i.Scheduled = m.CreatedAt
	return nil
}

func (r *InspectionRepository) GetByID(ctx context.Context, id int64) (*domain.Inspection, error) {
	var m inspectionModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainInspection(m)
}

// ExistsAt reports whether the inspector already has an inspection at the
// exact (date, minute) pair.
func (r *InspectionRepository) ExistsAt(ctx context.Context, inspectorID int64, date string, minute int) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&inspectionModel{}).
		Where("inspector_id = ? AND date = ? AND time_minute = ?", inspectorID, date, minute).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// BookedSlot is one occupied (date, minute) pair for an inspector.
type BookedSlot struct {
	InspectorID int64
	Date        string
	TimeMinute  int
}

// BookedBetween returns every occupied slot for the account's inspectors
// within the inclusive [from, until] date range.
func (r *InspectionRepository) BookedBetween(ctx context.Context, accountID int64, from, until string) ([]BookedSlot, error) {
	var rows []BookedSlot
	q := `
SELECT inspector_id, date, time_minute
FROM inspections
WHERE account_id = ?
  AND date >= ?
  AND date <= ?
`
	tx := r.db.WithContext(ctx).Raw(q, accountID, from, until).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// ListByInspectorBetween returns the inspector's inspections within the
// inclusive [from, until] date range ordered by date and time.
func (r *InspectionRepository) ListByInspectorBetween(ctx context.Context, inspectorID int64, from, until string) ([]*domain.Inspection, error) {
	var models []inspectionModel
	tx := r.db.WithContext(ctx).
		Where("inspector_id = ? AND date >= ? AND date <= ?", inspectorID, from, until).
		Order("date, time_minute").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.Inspection, 0, len(models))
	for _, m := range models {
		i, err := toDomainInspection(m)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func (r *InspectionRepository) UpdateProperty(ctx context.Context, id int64, p domain.Property) error {
	return r.updates(ctx, id, map[string]any{
		"address1":   p.Address1,
		"address2":   strPtr(p.Address2),
		"city":       p.City,
		"state":      p.State,
		"zip":        p.Zip,
		"sqft":       p.Sqft,
		"year_built": p.YearBuilt,
		"foundation": p.Foundation,
	})
}

func (r *InspectionRepository) UpdateAppointment(ctx context.Context, id int64, inspectorID int64, date string, minute int) error {
	return r.updates(ctx, id, map[string]any{
		"inspector_id": inspectorID,
		"date":         date,
		"time_minute":  minute,
	})
}

func (r *InspectionRepository) UpdateServices(ctx context.Context, id int64, main string, additional []string) error {
	raw, err := json.Marshal(additional)
	if err != nil {
		return err
	}
	return r.updates(ctx, id, map[string]any{
		"main_service":        main,
		"additional_services": raw,
	})
}

// MarkInvoiced locks the inspection and stores the computed pricing
// snapshot in one update.
func (r *InspectionRepository) MarkInvoiced(ctx context.Context, id int64, inv domain.Invoice) error {
	raw, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return r.updates(ctx, id, map[string]any{
		"details_locked": true,
		"invoice_sent":   true,
		"invoiced":       inv.Total,
		"balance":        inv.Total,
		"pricing":        raw,
	})
}

func (r *InspectionRepository) SavePayments(ctx context.Context, id int64, balance float64, history []domain.PaymentRecord) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return r.updates(ctx, id, map[string]any{
		"balance":  balance,
		"payments": raw,
	})
}

func (r *InspectionRepository) updates(ctx context.Context, id int64, values map[string]any) error {
	tx := r.db.WithContext(ctx).
		Model(&inspectionModel{}).
		Where("id = ?", id).
		Updates(values)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
