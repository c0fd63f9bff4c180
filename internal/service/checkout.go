package service

import (
	"context"
	"fmt"
	"strings"

	"canteen/internal/model"
)

type CheckoutRequest struct {
	Items         []model.Item
	Phone         string
	Address       string
	Instructions  string
	PaymentMethod string
}

type CheckoutResult struct {
	Order   model.Order    `json:"order"`
	Receipt PaymentReceipt `json:"receipt"`
}

// CheckoutService prices a cart from the catalog, charges it and only then creates the order.
type CheckoutService struct {
	menu     *MenuService
	payments *PaymentSimulator
	orders   *OrderService
}

func NewCheckoutService(menu *MenuService, payments *PaymentSimulator, orders *OrderService) *CheckoutService {
	return &CheckoutService{menu: menu, payments: payments, orders: orders}
}

func (s *CheckoutService) Checkout(ctx context.Context, user model.User, req CheckoutRequest) (CheckoutResult, error) {
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Address) == "" {
		return CheckoutResult{}, invalid("delivery", "phone and address are required")
	}
	if !ValidPaymentMethod(req.PaymentMethod) {
		return CheckoutResult{}, invalid("payment_method", "unsupported payment method %q", req.PaymentMethod)
	}

	items, err := s.priceItems(req.Items)
	if err != nil {
		return CheckoutResult{}, err
	}
	if err := validateItems(items); err != nil {
		return CheckoutResult{}, err
	}

	quote := model.Order{Items: items, DeliveryFee: s.orders.DeliveryFee()}
	receipt, err := s.payments.Charge(ctx, req.PaymentMethod, quote.ComputeTotal())
	if err != nil {
		return CheckoutResult{}, err
	}

	customer := model.Customer{
		ID:           user.ID,
		Name:         user.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Instructions: req.Instructions,
	}
	order, err := s.orders.Create(ctx, items, customer, req.PaymentMethod)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("place order: %w", err)
	}
	return CheckoutResult{Order: order, Receipt: receipt}, nil
}

// priceItems replaces client supplied names and prices with catalog values for catalog items.
func (s *CheckoutService) priceItems(in []model.Item) ([]model.Item, error) {
	out := make([]model.Item, len(in))
	for i, it := range in {
		if it.MenuID != "" {
			m, ok := s.menu.Lookup(it.MenuID)
			if !ok {
				return nil, invalid(fmt.Sprintf("items[%d].menu_id", i), "unknown menu item %q", it.MenuID)
			}
			it.Name = m.Name
			it.UnitPrice = m.Price
		}
		out[i] = it
	}
	return out, nil
}
