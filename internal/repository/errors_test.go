package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"inspectdesk/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	gormsqlite "gorm.io/driver/sqlite"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Same driver setup as database.Connect; opened directly here because
	// that package imports this one for the model list.
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        ":memory:",
		}),
		&gorm.Config{TranslateError: true},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func TestIsDuplicateKey_SentinelErrors(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(&pgconn.PgError{Code: "23505"}))

	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection reset")))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}

func TestIsDuplicateKey_DoubleBookingInsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	first := &domain.Inspection{
		Number:      1,
		AccountID:   1,
		InspectorID: 7,
		Property: domain.Property{
			Address1:   "12 Ridge Rd",
			City:       "Concord",
			State:      "NH",
			Zip:        "03301",
			Sqft:       1800,
			YearBuilt:  1996,
			Foundation: "basement",
		},
		MainService: "full",
		Date:        "20260102",
		TimeMinute:  480,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := *first
	second.ID = 0
	second.Number = 2
	second.Property.Address1 = "14 Ridge Rd"

	err := repo.Create(ctx, &second)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err), "lost insert race must read as a duplicate key, got: %v", err)
}

func TestIsDuplicateKey_DifferentSlotInserts(t *testing.T) {
	db := openTestDB(t)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	base := domain.Inspection{
		Number:      1,
		AccountID:   1,
		InspectorID: 7,
		Property: domain.Property{
			Address1:   "12 Ridge Rd",
			City:       "Concord",
			State:      "NH",
			Zip:        "03301",
			Sqft:       1800,
			YearBuilt:  1996,
			Foundation: "slab",
		},
		MainService: "full",
		Date:        "20260102",
		TimeMinute:  480,
	}

	a := base
	require.NoError(t, repo.Create(ctx, &a))

	b := base
	b.Number = 2
	b.TimeMinute = 600
	require.NoError(t, repo.Create(ctx, &b))

	c := base
	c.Number = 3
	c.InspectorID = 8
	require.NoError(t, repo.Create(ctx, &c))
}
