// Package notification delivers buyer emails for order events. Delivery is
// best effort: nothing is queued or retried.
package notification

import (
	"context"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Result struct {
	Success bool
	Error   string
}

type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no email webhook is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) (Result, error) {
	logger.FromCtx(ctx).Info("email not delivered: no webhook configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTMLBody)),
	)
	return Result{Success: true}, nil
}
