package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the PDF receipt to the
// customer via SMTP. Sends go through a circuit breaker so a flapping
// SMTP server fast-fails instead of stalling the pool; jobs that still
// fail after all retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meipdv/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
	rdb     *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker, rdb: rdb}
}

// Process sends an email with the PDF receipt as attachment.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := withRetry(ctx, emailMaxAttempts, func(attempt int) error {
		return w.breaker.Execute(func() error {
			return w.mailer.EnviarRecibo(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", payload.ToEmail).Msg("email_worker: circuit open, sending to DLQ")
		} else {
			log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed after all retries")
		}
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), emailMaxAttempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: recibo sent successfully")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
