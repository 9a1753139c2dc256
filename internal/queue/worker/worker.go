// Package worker drains the notification queue and hands each message to
// a Notifier, retrying transient failures with exponential backoff.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gatherhub/gatherhub/internal/notifications"
	"github.com/gatherhub/gatherhub/internal/observability"
	"github.com/gatherhub/gatherhub/internal/queue/redisclient"
)

type Queue interface {
	BlockingPop(ctx context.Context, key string, timeout time.Duration) ([]byte, error)
}

type Config struct {
	QueueKey    string
	PopTimeout  time.Duration
	MaxAttempts int
}

type Worker struct {
	cfg      Config
	queue    Queue
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
}

func New(cfg Config, queue Queue, notifier notifications.Notifier, prom *observability.Prom, log *slog.Logger) *Worker {
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 2 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}

	return &Worker{
		cfg:      cfg,
		queue:    queue,
		notifier: notifier,
		prom:     prom,
		log:      log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			w.log.Error("pop error", "err", err)

			// brief pause so a dead redis does not spin the loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
		}

		_ = processed
	}
}

// ProcessOne pops and delivers a single message. It reports whether a
// message was handled so tests can drive the loop step by step.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	raw, err := w.queue.BlockingPop(ctx, w.cfg.QueueKey, w.cfg.PopTimeout)

	if err != nil {
		if errors.Is(err, redisclient.ErrEmpty) {
			return false, nil
		}

		return false, err
	}

	n, err := notifications.Decode(raw)

	if err != nil {
		w.log.Error("dropping undecodable message", "err", err)
		w.observe(string(n.Kind), "dropped", 0)
		return true, nil
	}

	w.deliver(ctx, n)

	return true, nil
}

func (w *Worker) deliver(ctx context.Context, n notifications.Notification) {
	if w.prom != nil {
		w.prom.NotifyInFlight.Inc()
		defer w.prom.NotifyInFlight.Dec()
	}

	for attempt := 0; attempt < w.cfg.MaxAttempts; attempt++ {
		start := time.Now()
		err := w.notifier.Send(ctx, n)
		elapsed := time.Since(start)

		if err == nil {
			w.observe(string(n.Kind), "done", elapsed)
			return
		}

		if attempt == w.cfg.MaxAttempts-1 || ctx.Err() != nil {
			break
		}

		w.observe(string(n.Kind), "retry", elapsed)
		w.log.Warn("notification delivery failed, retrying",
			"kind", n.Kind, "registrationId", n.RegistrationID, "attempt", attempt+1, "err", err)

		select {
		case <-time.After(ExponentialBackoff(attempt)):
		case <-ctx.Done():
			return
		}
	}

	w.observe(string(n.Kind), "dropped", 0)
	w.log.Error("notification dropped after max attempts",
		"kind", n.Kind, "registrationId", n.RegistrationID, "attempts", w.cfg.MaxAttempts)
}

func (w *Worker) observe(kind, result string, elapsed time.Duration) {
	if w.prom == nil {
		return
	}

	w.prom.NotifyResults.WithLabelValues(kind, result).Inc()
	w.prom.NotifyDuration.WithLabelValues(kind, result).Observe(elapsed.Seconds())
}
