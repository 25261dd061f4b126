package notification

import (
	"context"
	"errors"
	"fmt"

	"storefront-be/internal/account"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"

	"go.uber.org/zap"
)

const (
	CounterSent   = "notifications_sent_total"
	CounterFailed = "notifications_failed_total"
)

var ErrNoRecipient = errors.New("buyer has no email address")

type ContactReader interface {
	GetContact(ctx context.Context, accountID string) (*account.Contact, error)
}

// Dispatcher turns order events into emails. It implements order.Notifier.
type Dispatcher struct {
	sender   Sender
	contacts ContactReader
	sent     *metrics.Counter
	failed   *metrics.Counter
}

func NewDispatcher(sender Sender, contacts ContactReader, registry *metrics.Registry) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		contacts: contacts,
		sent:     registry.Counter(CounterSent),
		failed:   registry.Counter(CounterFailed),
	}
}

func (d *Dispatcher) Notify(ctx context.Context, event order.Event, o *order.Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("event", string(event)),
		zap.String("order_id", o.ID),
	)

	err := d.notify(ctx, event, o, log)
	if err != nil {
		d.failed.Inc()
		return err
	}
	d.sent.Inc()
	return nil
}

func (d *Dispatcher) notify(ctx context.Context, event order.Event, o *order.Order, log *zap.Logger) error {
	contact, err := d.contacts.GetContact(ctx, o.BuyerID)
	if err != nil {
		return fmt.Errorf("lookup buyer contact: %w", err)
	}
	if contact.Email == "" {
		return ErrNoRecipient
	}

	subject, body, err := render(event, contact.Name, o)
	if err != nil {
		return err
	}

	timer := metrics.StartTimer()
	res, err := d.sender.Send(ctx, Message{To: contact.Email, Subject: subject, HTMLBody: body})
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("email rejected: %s", res.Error)
	}

	log.Info("notification sent", zap.Duration("duration", timer.Duration()))
	return nil
}
