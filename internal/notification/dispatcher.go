package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"inspectdesk/internal/domain"

	"github.com/robfig/cron/v3"
)

// Sender delivers one notification. Email transport lives behind this
// interface; the default implementation only logs.
type Sender interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// LogSender writes the would-be email to the process log. Real SMTP
// delivery is an external collaborator wired in at startup.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n *domain.Notification) error {
	log.Printf("email type=%s to=%q <%s> account=%d", n.Type, n.RecipientName, n.RecipientEmail, n.AccountID)
	return nil
}

// Dispatcher periodically relays pending outbox rows through the sender.
// A failed delivery marks the row failed; the next run retries it.
type Dispatcher struct {
	outbox   OutboxRepository
	sender   Sender
	interval time.Duration
	batch    int
	cron     *cron.Cron
}

func NewDispatcher(outbox OutboxRepository, sender Sender, interval time.Duration, batch int) *Dispatcher {
	return &Dispatcher{
		outbox:   outbox,
		sender:   sender,
		interval: interval,
		batch:    batch,
		cron:     cron.New(),
	}
}

func (d *Dispatcher) Start() error {
	spec := fmt.Sprintf("@every %s", d.interval)
	if _, err := d.cron.AddFunc(spec, func() {
		if err := d.DispatchPending(context.Background()); err != nil {
			log.Printf("outbox dispatch: %v", err)
		}
	}); err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// DispatchPending relays one batch of undelivered rows.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	pending, err := d.outbox.Pending(ctx, d.batch)
	if err != nil {
		return err
	}

	for _, n := range pending {
		if err := d.sender.Send(ctx, n); err != nil {
			if markErr := d.outbox.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				return markErr
			}
			continue
		}
		if err := d.outbox.MarkSent(ctx, n.ID); err != nil {
			return err
		}
	}
	return nil
}
