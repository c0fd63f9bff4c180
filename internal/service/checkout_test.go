package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"canteen/internal/model"
)

func newCheckout(t *testing.T, delay, timeout time.Duration) (*CheckoutService, *fixture) {
	t.Helper()
	f := newFixture(t)
	menu, err := NewMenuService(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewCheckoutService(menu, NewPaymentSimulator(delay, timeout), f.orders), f
}

var aliceUser = model.User{ID: alice.ID, Login: "alice", Name: "Alice", Role: model.RoleCustomer}

func TestCheckoutPricesFromCatalog(t *testing.T) {
	svc, _ := newCheckout(t, 0, time.Second)

	res, err := svc.Checkout(context.Background(), aliceUser, CheckoutRequest{
		Items:         []model.Item{{MenuID: "idli", Name: "cheap idli", UnitPrice: 1, Quantity: 2}},
		Phone:         "9876543210",
		Address:       "Room 101",
		PaymentMethod: "upi",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Order.Total != 130 {
		t.Errorf("total = %v, want 130", res.Order.Total)
	}
	if res.Order.Items[0].Name != "Idli" {
		t.Errorf("item name = %q, want catalog name", res.Order.Items[0].Name)
	}
	if res.Receipt.Amount != 130 || res.Receipt.Method != "UPI" || res.Receipt.Reference == "" {
		t.Errorf("receipt = %+v", res.Receipt)
	}
	if res.Order.Customer.ID != aliceUser.ID || res.Order.Customer.Address != "Room 101" {
		t.Errorf("customer = %+v", res.Order.Customer)
	}
}

func TestCheckoutRejects(t *testing.T) {
	valid := CheckoutRequest{
		Items:         []model.Item{{MenuID: "dosa", Quantity: 1}},
		Phone:         "9876543210",
		Address:       "Room 101",
		PaymentMethod: "phonepe",
	}
	tests := []struct {
		name   string
		mutate func(*CheckoutRequest)
	}{
		{"missing phone", func(r *CheckoutRequest) { r.Phone = "" }},
		{"missing address", func(r *CheckoutRequest) { r.Address = " " }},
		{"unknown payment", func(r *CheckoutRequest) { r.PaymentMethod = "cash" }},
		{"unknown menu item", func(r *CheckoutRequest) { r.Items = []model.Item{{MenuID: "pizza", Quantity: 1}} }},
		{"empty cart", func(r *CheckoutRequest) { r.Items = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newCheckout(t, 0, time.Second)
			req := valid
			tt.mutate(&req)
			if _, err := svc.Checkout(context.Background(), aliceUser, req); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if all, _ := f.orders.List(context.Background(), ListOptions{}); len(all) != 0 {
				t.Errorf("%d orders created", len(all))
			}
		})
	}
}

func TestCheckoutPaymentTimeout(t *testing.T) {
	svc, f := newCheckout(t, time.Second, 10*time.Millisecond)

	_, err := svc.Checkout(context.Background(), aliceUser, CheckoutRequest{
		Items:         []model.Item{{MenuID: "idli", Quantity: 1}},
		Phone:         "9876543210",
		Address:       "Room 101",
		PaymentMethod: "googlepay",
	})
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}
	if all, _ := f.orders.List(context.Background(), ListOptions{}); len(all) != 0 {
		t.Errorf("%d orders created after failed payment", len(all))
	}
}

func TestChargeValidation(t *testing.T) {
	p := NewPaymentSimulator(0, 0)
	if _, err := p.Charge(context.Background(), "upi", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("zero amount err = %v", err)
	}
	if _, err := p.Charge(context.Background(), "cheque", 10); !errors.Is(err, ErrValidation) {
		t.Errorf("bad method err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPaymentSimulator(time.Second, 0).Charge(ctx, "upi", 10); !errors.Is(err, ErrPaymentFailed) {
		t.Errorf("cancelled charge err = %v", err)
	}
}
