package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"canteen/internal/model"
	"canteen/internal/service"
)

// ProgressWorker walks orders through the canteen flow on a timer for demos. It uses the
// regular transition path, acting as the role that owns each step.
type ProgressWorker struct {
	orders    *service.OrderService
	interval  time.Duration
	durations map[model.Status]time.Duration
	now       func() time.Time
}

func NewProgressWorker(orders *service.OrderService, interval time.Duration) *ProgressWorker {
	return &ProgressWorker{
		orders:    orders,
		interval:  interval,
		durations: service.StageDurations,
		now:       time.Now,
	}
}

func (w *ProgressWorker) Start(ctx context.Context) {
	slog.Info("starting progress worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("progress worker stopped")
			return
		case <-ticker.C:
			if _, err := w.advanceDue(ctx); err != nil {
				slog.Error("progress batch failed", "error", err)
			}
		}
	}
}

// advanceDue moves every order that outstayed its current stage one step forward and
// reports how many moved.
func (w *ProgressWorker) advanceDue(ctx context.Context) (int, error) {
	orders, err := w.orders.List(ctx, service.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("list orders: %w", err)
	}

	now := w.now()
	moved := 0
	for _, o := range orders {
		if o.Status.Terminal() || now.Sub(o.EnteredAt()) < w.durations[o.Status] {
			continue
		}
		next, _ := o.Status.Next()
		actor, ok := service.OwnerOf(o.Status)
		if !ok {
			continue
		}

		if _, err := w.orders.Transition(ctx, o.ID, string(next), actor); err != nil {
			// Someone else moved it first.
			if errors.Is(err, service.ErrInvalidTransition) {
				continue
			}
			slog.Error("failed to advance order", "order", o.ID, "error", err)
			continue
		}
		moved++
	}
	return moved, nil
}
