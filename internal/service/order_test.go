package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"canteen/internal/model"
)

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	o := f.placeIdli(t, alice)

	if o.Total != 130 {
		t.Errorf("total = %v, want 130", o.Total)
	}
	if o.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", o.Status)
	}
	if len(o.History) != 1 || o.History[0].Status != model.StatusConfirmed {
		t.Errorf("history = %+v, want single confirmed entry", o.History)
	}

	got, err := f.orders.Get(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != 130 || got.Customer.ID != alice.ID {
		t.Errorf("stored order = %+v", got)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.Item
		customer model.Customer
	}{
		{"no items", nil, alice},
		{"zero quantity", []model.Item{{Name: "Idli", UnitPrice: 50, Quantity: 0}}, alice},
		{"negative price", []model.Item{{Name: "Idli", UnitPrice: -1, Quantity: 1}}, alice},
		{"missing name", []model.Item{{UnitPrice: 10, Quantity: 1}}, alice},
		{"missing customer", []model.Item{{Name: "Idli", UnitPrice: 50, Quantity: 1}}, model.Customer{Name: "anon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.orders.Create(context.Background(), tt.items, tt.customer, "upi")
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			all, _ := f.orders.List(context.Background(), ListOptions{})
			if len(all) != 0 {
				t.Errorf("store has %d orders after rejected create", len(all))
			}
		})
	}
}

func TestGetUnknownOrder(t *testing.T) {
	f := newFixture(t)
	if _, err := f.orders.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := f.orders.Transition(context.Background(), "missing", "preparing", model.RoleChef); !errors.Is(err, ErrNotFound) {
		t.Fatalf("transition err = %v, want ErrNotFound", err)
	}
}

func TestChefTransitionNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	chefBefore := countAudience(t, f.dispatcher, model.AudienceChef)
	adminBefore := countAudience(t, f.dispatcher, model.AudienceAdmin)

	updated, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleChef)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != model.StatusPreparing {
		t.Fatalf("status = %s, want preparing", updated.Status)
	}
	if got := countAudience(t, f.dispatcher, model.AudienceChef) - chefBefore; got != 1 {
		t.Errorf("new chef notifications = %d, want 1", got)
	}
	if got := countAudience(t, f.dispatcher, model.AudienceAdmin) - adminBefore; got != 1 {
		t.Errorf("new admin notifications = %d, want 1", got)
	}
	if f.publisher.count() != 1 {
		t.Errorf("published %d updates, want 1", f.publisher.count())
	}
	last := f.publisher.updates[0]
	if last.OldStatus != model.StatusConfirmed || last.NewStatus != model.StatusPreparing || last.ChangedBy != model.RoleChef {
		t.Errorf("update = %+v", last)
	}
}

func TestRejectedTransitionLeavesOrderUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)
	if _, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleChef); err != nil {
		t.Fatalf("transition: %v", err)
	}
	adminBefore := countAudience(t, f.dispatcher, model.AudienceAdmin)
	published := f.publisher.count()

	_, err := f.orders.Transition(ctx, o.ID, "delivered", model.RoleChef)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	got, _ := f.orders.Get(ctx, o.ID)
	if got.Status != model.StatusPreparing {
		t.Errorf("status = %s, want preparing", got.Status)
	}
	if len(got.History) != 2 {
		t.Errorf("history length = %d, want 2", len(got.History))
	}
	if countAudience(t, f.dispatcher, model.AudienceAdmin) != adminBefore {
		t.Error("rejected transition produced notifications")
	}
	if f.publisher.count() != published {
		t.Error("rejected transition published an update")
	}
}

func TestAdminForcedTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	got, err := f.orders.Transition(ctx, o.ID, "delivered", model.RoleAdmin)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if got.Status != model.StatusDelivered {
		t.Fatalf("status = %s, want delivered", got.Status)
	}
	last := got.History[len(got.History)-1]
	if !last.Forced || last.Actor != model.RoleAdmin {
		t.Errorf("last entry = %+v, want forced admin entry", last)
	}
	if !f.publisher.updates[0].Forced {
		t.Error("published update not flagged forced")
	}

	for _, target := range []string{"confirmed", "preparing", "delivered"} {
		if _, err := f.orders.Transition(ctx, o.ID, target, model.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("transition to %s on delivered order: err = %v, want ErrInvalidTransition", target, err)
		}
	}
}

func TestRepeatedTransitionFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	if _, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleChef); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if _, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleChef); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second transition err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	if _, err := f.orders.Transition(ctx, o.ID, "cancelled", model.RoleAdmin); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown status err = %v", err)
	}
	if _, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleCustomer); !errors.Is(err, ErrUnauthorizedTransition) {
		t.Errorf("customer err = %v", err)
	}
	if _, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleDelivery); !errors.Is(err, ErrUnauthorizedTransition) {
		t.Errorf("delivery err = %v", err)
	}
}

func TestFullLifecycleHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now, advance := fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	f.orders.now = now
	o := f.placeIdli(t, alice)

	steps := []struct {
		target string
		actor  model.Role
	}{
		{"preparing", model.RoleChef},
		{"ready", model.RoleChef},
		{"out_for_delivery", model.RoleDelivery},
		{"delivered", model.RoleDelivery},
	}
	for _, st := range steps {
		advance(time.Minute)
		if _, err := f.orders.Transition(ctx, o.ID, st.target, st.actor); err != nil {
			t.Fatalf("transition to %s: %v", st.target, err)
		}
	}

	got, _ := f.orders.Get(ctx, o.ID)
	if len(got.History) != len(model.Statuses) {
		t.Fatalf("history length = %d, want %d", len(got.History), len(model.Statuses))
	}
	for i, h := range got.History {
		if h.Status != model.Statuses[i] {
			t.Errorf("history[%d] = %s, want %s", i, h.Status, model.Statuses[i])
		}
		if i > 0 && h.At.Before(got.History[i-1].At) {
			t.Errorf("history[%d] timestamp goes backwards", i)
		}
	}
}

func TestConcurrentTransitionsSerialize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.Transition(ctx, o.ID, "preparing", model.RoleChef)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("%d transitions succeeded, want 1", succeeded)
	}
	got, _ := f.orders.Get(ctx, o.ID)
	if len(got.History) != 2 {
		t.Errorf("history length = %d, want 2", len(got.History))
	}
	if f.publisher.count() != 1 {
		t.Errorf("published %d updates, want 1", f.publisher.count())
	}
}

func TestListSortingAndFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now, advance := fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	f.orders.now = now

	small := f.placeIdli(t, alice)
	advance(time.Minute)
	big, err := f.orders.Create(ctx, []model.Item{{Name: "Chicken Biryani", UnitPrice: 150, Quantity: 2}}, alice, "upi")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.orders.Transition(ctx, big.ID, "preparing", model.RoleChef); err != nil {
		t.Fatal(err)
	}

	recent, _ := f.orders.List(ctx, ListOptions{})
	if recent[0].ID != big.ID {
		t.Errorf("recent sort first = %s, want %s", recent[0].ID, big.ID)
	}
	byAmount, _ := f.orders.List(ctx, ListOptions{Sort: SortAmount})
	if byAmount[0].ID != big.ID {
		t.Errorf("amount sort first = %s, want %s", byAmount[0].ID, big.ID)
	}
	byStatus, _ := f.orders.List(ctx, ListOptions{Sort: SortStatus})
	if byStatus[0].ID != small.ID {
		t.Errorf("status sort first = %s, want %s", byStatus[0].ID, small.ID)
	}

	preparing, _ := f.orders.List(ctx, ListOptions{Status: model.StatusPreparing})
	if len(preparing) != 1 || preparing[0].ID != big.ID {
		t.Errorf("status filter = %v", preparing)
	}
	if _, err := f.orders.List(ctx, ListOptions{Status: "cancelled"}); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown status filter err = %v", err)
	}
}

func TestParseSort(t *testing.T) {
	if k, err := ParseSort(""); err != nil || k != SortRecent {
		t.Errorf("ParseSort(\"\") = %s, %v", k, err)
	}
	if k, err := ParseSort("Amount"); err != nil || k != SortAmount {
		t.Errorf("ParseSort(Amount) = %s, %v", k, err)
	}
	if _, err := ParseSort("price"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseSort(price) err = %v", err)
	}
}

func TestTransitionAcceptsCamelCaseStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.placeIdli(t, alice)

	for _, step := range []struct {
		target string
		actor  model.Role
	}{
		{"Preparing", model.RoleChef},
		{"Ready", model.RoleChef},
		{"OutForDelivery", model.RoleDelivery},
	} {
		if _, err := f.orders.Transition(ctx, o.ID, step.target, step.actor); err != nil {
			t.Fatalf("transition to %s: %v", step.target, err)
		}
	}

	got, _ := f.orders.Get(ctx, o.ID)
	if got.Status != model.StatusOutForDelivery {
		t.Fatalf("status = %s, want out_for_delivery", got.Status)
	}
	filtered, err := f.orders.List(ctx, ListOptions{Status: got.Status})
	if err != nil || len(filtered) != 1 {
		t.Errorf("list by status = %v, %v", filtered, err)
	}
}
