package billing

import (
	"context"

	"inspectdesk/internal/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

type InspectionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Inspection, error)
	MarkInvoiced(ctx context.Context, id int64, inv domain.Invoice) error
	SavePayments(ctx context.Context, id int64, balance float64, history []domain.PaymentRecord) error
}

type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	UpdateTokens(ctx context.Context, id int64, tokens []domain.AccessToken) error
}

// Notifier enqueues outbound notifications. Failures are logged, never
// surfaced to the billing caller.
type Notifier interface {
	InvoiceSent(ctx context.Context, account *domain.Account, inspection *domain.Inspection, inv domain.Invoice) error
	PaymentConfirmed(ctx context.Context, account *domain.Account, inspection *domain.Inspection, amount, balance float64) error
}
