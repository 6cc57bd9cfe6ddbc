package scheduling

import (
	"context"

	"inspectdesk/internal/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	NextInspectionNumber(ctx context.Context, accountID int64) (int64, error)
}

type InspectorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Inspector, error)
	AppendInspection(ctx context.Context, inspectorID, inspectionID int64) error
}

type ClientRepository interface {
	FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	AppendInspection(ctx context.Context, clientID, inspectionID int64) error
}

type RealtorRepository interface {
	FindByEmail(ctx context.Context, accountID int64, email string) (*domain.Realtor, error)
	Create(ctx context.Context, r *domain.Realtor) error
	AppendInspection(ctx context.Context, realtorID, inspectionID int64) error
	AppendClient(ctx context.Context, realtorID, clientID int64) error
}

type InspectionRepository interface {
	Create(ctx context.Context, i *domain.Inspection) error
	GetByID(ctx context.Context, id int64) (*domain.Inspection, error)
	ListByInspectorBetween(ctx context.Context, inspectorID int64, from, until string) ([]*domain.Inspection, error)
	UpdateProperty(ctx context.Context, id int64, p domain.Property) error
	UpdateAppointment(ctx context.Context, id int64, inspectorID int64, date string, minute int) error
	UpdateServices(ctx context.Context, id int64, main string, additional []string) error
}

// AvailabilityChecker is the availability engine's bookability predicate.
type AvailabilityChecker interface {
	CanSchedule(ctx context.Context, accountID, inspectorID int64, date string, minute int) (bool, error)
}

// Notifier enqueues outbound notifications. Enqueue failures are logged by
// the orchestrator, never surfaced to the booking caller.
type Notifier interface {
	PartyAccountCreated(ctx context.Context, accountID int64, name, email, plaintextPassword string) error
	ScheduledClient(ctx context.Context, account *domain.Account, client *domain.Client, inspection *domain.Inspection) error
	ScheduledRealtor(ctx context.Context, account *domain.Account, realtor *domain.Realtor, inspection *domain.Inspection) error
}
