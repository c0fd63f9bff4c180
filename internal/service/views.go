package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"canteen/internal/model"
)

type ChefView struct {
	Confirmed     []model.Order        `json:"confirmed"`
	Preparing     []model.Order        `json:"preparing"`
	Ready         []model.Order        `json:"ready"`
	Notifications []model.Notification `json:"notifications"`
}

type Stats struct {
	Orders            int                  `json:"orders"`
	ByStatus          map[model.Status]int `json:"by_status"`
	Revenue           float64              `json:"revenue"`
	AverageOrderValue float64              `json:"average_order_value"`
}

type AdminView struct {
	Orders []model.Order `json:"orders"`
	Stats  Stats         `json:"stats"`
}

type TrackedOrder struct {
	model.Order
	ETAMinutes float64 `json:"eta_minutes"`
}

type CustomerView struct {
	Orders        []TrackedOrder       `json:"orders"`
	Notifications []model.Notification `json:"notifications"`
}

// Views builds read-only projections of the order store for each role.
type Views struct {
	orders     *OrderService
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewViews(orders *OrderService, dispatcher *Dispatcher) *Views {
	return &Views{orders: orders, dispatcher: dispatcher, now: time.Now}
}

// Chef groups the kitchen queue oldest first.
func (v *Views) Chef(ctx context.Context) (ChefView, error) {
	orders, err := v.orders.List(ctx, ListOptions{})
	if err != nil {
		return ChefView{}, err
	}
	notes, err := v.dispatcher.ListFor(ctx, model.AudienceChef, "")
	if err != nil {
		return ChefView{}, err
	}

	view := ChefView{
		Confirmed:     []model.Order{},
		Preparing:     []model.Order{},
		Ready:         []model.Order{},
		Notifications: notes,
	}
	slices.SortFunc(orders, func(a, b model.Order) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	for _, o := range orders {
		switch o.Status {
		case model.StatusConfirmed:
			view.Confirmed = append(view.Confirmed, o)
		case model.StatusPreparing:
			view.Preparing = append(view.Preparing, o)
		case model.StatusReady:
			view.Ready = append(view.Ready, o)
		}
	}
	return view, nil
}

func (v *Views) Admin(ctx context.Context, opts ListOptions) (AdminView, error) {
	orders, err := v.orders.List(ctx, opts)
	if err != nil {
		return AdminView{}, err
	}
	all := orders
	if opts.Status != "" || opts.CustomerID != "" {
		if all, err = v.orders.List(ctx, ListOptions{}); err != nil {
			return AdminView{}, err
		}
	}
	return AdminView{Orders: orders, Stats: Aggregate(all)}, nil
}

func (v *Views) Customer(ctx context.Context, customerID string) (CustomerView, error) {
	orders, err := v.orders.List(ctx, ListOptions{CustomerID: customerID, Sort: SortRecent})
	if err != nil {
		return CustomerView{}, err
	}
	notes, err := v.dispatcher.ListFor(ctx, model.AudienceCustomer, customerID)
	if err != nil {
		return CustomerView{}, err
	}

	now := v.now()
	view := CustomerView{Orders: make([]TrackedOrder, 0, len(orders)), Notifications: notes}
	for _, o := range orders {
		view.Orders = append(view.Orders, TrackedOrder{
			Order:      o,
			ETAMinutes: EstimateRemaining(o, now).Minutes(),
		})
	}
	return view, nil
}

// Aggregate reports zero averages for an empty store.
func Aggregate(orders []model.Order) Stats {
	st := Stats{ByStatus: make(map[model.Status]int, len(model.Statuses))}
	for _, s := range model.Statuses {
		st.ByStatus[s] = 0
	}
	for _, o := range orders {
		st.Orders++
		st.ByStatus[o.Status]++
		st.Revenue += o.Total
	}
	if st.Orders > 0 {
		st.AverageOrderValue = st.Revenue / float64(st.Orders)
	}
	return st
}
