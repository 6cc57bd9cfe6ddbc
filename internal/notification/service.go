package notification

import (
	"context"
	"fmt"

	"inspectdesk/internal/domain"
)

// OutboxRepository is the persisted outbox the service enqueues into.
type OutboxRepository interface {
	Enqueue(ctx context.Context, n *domain.Notification) error
	Pending(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// ClientDirectory resolves client recipients.
type ClientDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// RealtorDirectory resolves realtor recipients.
type RealtorDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Realtor, error)
}

// Service enqueues outbox rows for the booking and billing flows and
// pushes live events to connected dashboard clients. Enqueueing never
// sends email; the dispatcher relays rows out of band.
type Service struct {
	outbox   OutboxRepository
	clients  ClientDirectory
	realtors RealtorDirectory
	hub      *Hub
}

func NewService(outbox OutboxRepository, clients ClientDirectory, realtors RealtorDirectory, hub *Hub) *Service {
	return &Service{
		outbox:   outbox,
		clients:  clients,
		realtors: realtors,
		hub:      hub,
	}
}

// PartyAccountCreated queues the welcome email for a freshly created client
// or realtor record. The plaintext password exists only in this row and in
// the email rendered from it.
func (s *Service) PartyAccountCreated(ctx context.Context, accountID int64, name, email, plaintextPassword string) error {
	return s.outbox.Enqueue(ctx, &domain.Notification{
		AccountID:      accountID,
		Type:           domain.NotifAccountCreated,
		RecipientName:  name,
		RecipientEmail: email,
		Payload: map[string]any{
			"password": plaintextPassword,
		},
	})
}

// ScheduledClient queues the appointment confirmation for a client and
// broadcasts the booking to the account's dashboard.
func (s *Service) ScheduledClient(ctx context.Context, account *domain.Account, client *domain.Client, inspection *domain.Inspection) error {
	s.broadcastScheduled(account.ID, inspection)
	return s.outbox.Enqueue(ctx, &domain.Notification{
		AccountID:      account.ID,
		Type:           domain.NotifScheduledClient,
		RecipientName:  client.Name(),
		RecipientEmail: client.Email,
		Payload:        scheduledPayload(account, inspection),
	})
}

// ScheduledRealtor queues the appointment confirmation for the referring
// realtor.
func (s *Service) ScheduledRealtor(ctx context.Context, account *domain.Account, realtor *domain.Realtor, inspection *domain.Inspection) error {
	s.broadcastScheduled(account.ID, inspection)
	return s.outbox.Enqueue(ctx, &domain.Notification{
		AccountID:      account.ID,
		Type:           domain.NotifScheduledRealtor,
		RecipientName:  realtor.Name(),
		RecipientEmail: realtor.Email,
		Payload:        scheduledPayload(account, inspection),
	})
}

// InvoiceSent queues the invoice email for every party on the inspection.
func (s *Service) InvoiceSent(ctx context.Context, account *domain.Account, inspection *domain.Inspection, inv domain.Invoice) error {
	payload := map[string]any{
		"inspection_id":     inspection.ID,
		"inspection_number": inspection.Number,
		"address":           inspection.Property.FormatAddress(),
		"subtotal":          inv.Subtotal,
		"tax":               inv.Tax,
		"total":             inv.Total,
	}
	if err := s.enqueueForParties(ctx, account, inspection, domain.NotifInvoiceSent, payload); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastAccount(account.ID, Event{
			Type:         "invoice_sent",
			InspectionID: inspection.ID,
			Date:         inspection.Date,
			Time:         inspection.TimeMinute,
		})
	}
	return nil
}

// PaymentConfirmed queues the payment receipt for every party on the
// inspection.
func (s *Service) PaymentConfirmed(ctx context.Context, account *domain.Account, inspection *domain.Inspection, amount, balance float64) error {
	payload := map[string]any{
		"inspection_id":     inspection.ID,
		"inspection_number": inspection.Number,
		"amount":            amount,
		"balance":           balance,
	}
	return s.enqueueForParties(ctx, account, inspection, domain.NotifPaymentConfirmed, payload)
}

func (s *Service) enqueueForParties(ctx context.Context, account *domain.Account, inspection *domain.Inspection, kind domain.NotificationType, payload map[string]any) error {
	for _, clientID := range []*int64{inspection.Client1ID, inspection.Client2ID} {
		if clientID == nil {
			continue
		}
		client, err := s.clients.GetByID(ctx, *clientID)
		if err != nil {
			return fmt.Errorf("resolve client %d: %w", *clientID, err)
		}
		if err := s.outbox.Enqueue(ctx, &domain.Notification{
			AccountID:      account.ID,
			Type:           kind,
			RecipientName:  client.Name(),
			RecipientEmail: client.Email,
			Payload:        payload,
		}); err != nil {
			return err
		}
	}
	if inspection.RealtorID != nil {
		realtor, err := s.realtors.GetByID(ctx, *inspection.RealtorID)
		if err != nil {
			return fmt.Errorf("resolve realtor %d: %w", *inspection.RealtorID, err)
		}
		if err := s.outbox.Enqueue(ctx, &domain.Notification{
			AccountID:      account.ID,
			Type:           kind,
			RecipientName:  realtor.Name(),
			RecipientEmail: realtor.Email,
			Payload:        payload,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) broadcastScheduled(accountID int64, inspection *domain.Inspection) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastAccount(accountID, Event{
		Type:         "inspection_scheduled",
		InspectionID: inspection.ID,
		InspectorID:  inspection.InspectorID,
		Date:         inspection.Date,
		Time:         inspection.TimeMinute,
	})
}

func scheduledPayload(account *domain.Account, inspection *domain.Inspection) map[string]any {
	return map[string]any{
		"company":           account.Name,
		"inspection_id":     inspection.ID,
		"inspection_number": inspection.Number,
		"address":           inspection.Property.FormatAddress(),
		"date":              inspection.Date,
		"time":              inspection.TimeMinute,
		"services":          inspection.Services(),
	}
}
