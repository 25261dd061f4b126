package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

type webhookSender struct {
	url        string
	token      string
	from       string
	httpClient *http.Client
}

type webhookPayload struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// NewWebhookSender posts messages as JSON to an email relay.
func NewWebhookSender(url, token, from string) Sender {
	if token == "" {
		logger.L().Warn("email webhook token is empty")
	}

	return &webhookSender{
		url:   url,
		token: token,
		from:  from,
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

func (w *webhookSender) Send(ctx context.Context, msg Message) (Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)

	body, err := json.Marshal(webhookPayload{
		From:    w.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
	})
	if err != nil {
		return Result{Error: err.Error()}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed creating email request", zap.Error(err))
		return Result{Error: err.Error()}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Error("email webhook request failed", zap.Error(err))
		return Result{Error: err.Error()}, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("email webhook returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		err := fmt.Errorf("email webhook error: status %d: %s", resp.StatusCode, string(respBody))
		return Result{Error: err.Error()}, err
	}

	log.Debug("email accepted by webhook", zap.Int("status", resp.StatusCode))
	return Result{Success: true}, nil
}
