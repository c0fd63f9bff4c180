package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository/memory"
)

type recordingPublisher struct {
	mu      sync.Mutex
	updates []model.StatusUpdate
}

func (p *recordingPublisher) PublishStatusUpdate(_ context.Context, u model.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

type fixture struct {
	orders     *OrderService
	dispatcher *Dispatcher
	views      *Views
	publisher  *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub := &recordingPublisher{}
	d := NewDispatcher(memory.NewNotificationRepository(), pub)
	orders := NewOrderService(memory.NewOrderRepository(), d, 30)
	return &fixture{
		orders:     orders,
		dispatcher: d,
		views:      NewViews(orders, d),
		publisher:  pub,
	}
}

var alice = model.Customer{ID: "u-alice", Name: "Alice", Phone: "9876543210", Address: "Room 101, Hostel A"}

func (f *fixture) placeIdli(t *testing.T, c model.Customer) model.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), []model.Item{{Name: "Idli", UnitPrice: 50, Quantity: 2}}, c, "upi")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func countAudience(t *testing.T, d *Dispatcher, a model.Audience) int {
	t.Helper()
	ns, err := d.ListFor(context.Background(), a, "")
	if err != nil {
		t.Fatalf("list %s notifications: %v", a, err)
	}
	return len(ns)
}

// fixedClock returns a clock that can be moved forward.
func fixedClock(start time.Time) (now func() time.Time, advance func(time.Duration)) {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return cur
		}, func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			cur = cur.Add(d)
		}
}
