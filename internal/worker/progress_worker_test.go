package worker

import (
	"context"
	"testing"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository/memory"
	"canteen/internal/service"
)

func newOrders(t *testing.T) *service.OrderService {
	t.Helper()
	d := service.NewDispatcher(memory.NewNotificationRepository(), nil)
	return service.NewOrderService(memory.NewOrderRepository(), d, 30)
}

func place(t *testing.T, orders *service.OrderService) model.Order {
	t.Helper()
	o, err := orders.Create(context.Background(),
		[]model.Item{{Name: "Dosa", UnitPrice: 60, Quantity: 1}},
		model.Customer{ID: "c1", Name: "Alice"}, "upi")
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestAdvanceDue(t *testing.T) {
	ctx := context.Background()
	orders := newOrders(t)
	o := place(t, orders)

	w := NewProgressWorker(orders, time.Second)

	w.now = time.Now
	if moved, err := w.advanceDue(ctx); err != nil || moved != 0 {
		t.Fatalf("fresh order moved: %d, %v", moved, err)
	}

	w.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	want := []model.Status{model.StatusPreparing, model.StatusReady, model.StatusOutForDelivery, model.StatusDelivered}
	for _, status := range want {
		moved, err := w.advanceDue(ctx)
		if err != nil || moved != 1 {
			t.Fatalf("advance to %s: moved %d, err %v", status, moved, err)
		}
		got, _ := orders.Get(ctx, o.ID)
		if got.Status != status {
			t.Fatalf("status = %s, want %s", got.Status, status)
		}
	}

	if moved, _ := w.advanceDue(ctx); moved != 0 {
		t.Errorf("delivered order moved again")
	}

	final, _ := orders.Get(ctx, o.ID)
	actors := []model.Role{model.RoleCustomer, model.RoleChef, model.RoleChef, model.RoleDelivery, model.RoleDelivery}
	for i, h := range final.History {
		if h.Actor != actors[i] || h.Forced {
			t.Errorf("history[%d] = %+v, want actor %s", i, h, actors[i])
		}
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	w := NewProgressWorker(newOrders(t), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
