package availability

import (
	"context"

	"inspectdesk/internal/domain"
	"inspectdesk/internal/repository"
)

// InspectorRepository is the slice of the inspector store the availability
// engine needs.
type InspectorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Inspector, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Inspector, error)
	SaveTimeslots(ctx context.Context, inspectorID int64, t domain.WeeklyTimeslots) error
	SaveTimeOff(ctx context.Context, inspectorID int64, entries []domain.TimeOffEntry) error
}

// InspectionRepository exposes the booked-slot lookups.
type InspectionRepository interface {
	ExistsAt(ctx context.Context, inspectorID int64, date string, minute int) (bool, error)
	BookedBetween(ctx context.Context, accountID int64, from, until string) ([]repository.BookedSlot, error)
}
