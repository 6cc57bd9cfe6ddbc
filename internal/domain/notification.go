package domain

import "time"

// NotificationType identifies an outbound notification template.
type NotificationType string

const (
	NotifAccountCreated   NotificationType = "account_created"
	NotifScheduledClient  NotificationType = "scheduled_client"
	NotifScheduledRealtor NotificationType = "scheduled_realtor"
	NotifInvoiceSent      NotificationType = "invoice_sent"
	NotifPaymentConfirmed NotificationType = "payment_confirmed"
)

// Outbox row states.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is a persisted outbox row. Booking operations enqueue rows
// and succeed regardless of delivery; the dispatcher relays pending rows
// and records the outcome.
type Notification struct {
	ID        int64            `json:"id"`
	AccountID int64            `json:"account_id"`
	Type      NotificationType `json:"type"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	// Payload holds template data. For account_created it carries the
	// generated plaintext password exactly once; the row is the only place
	// it ever exists outside the email.
	Payload map[string]any `json:"payload"`

	Status   string     `json:"status"`
	Attempts int        `json:"attempts"`
	LastErr  string     `json:"last_error,omitempty"`
	Created  time.Time  `json:"created"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
}
