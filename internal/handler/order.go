package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"canteen/internal/model"
	"canteen/internal/mw"
	"canteen/internal/service"
)

type checkoutItem struct {
	MenuID    string  `json:"menu_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type checkoutRequest struct {
	Items         []checkoutItem `json:"items"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	Instructions  string         `json:"instructions"`
	PaymentMethod string         `json:"payment_method"`
}

func CheckoutHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		var req checkoutRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items := make([]model.Item, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, model.Item{MenuID: it.MenuID, Name: it.Name, UnitPrice: it.UnitPrice, Quantity: it.Quantity})
		}

		res, err := checkout.Checkout(r.Context(), id.User(), service.CheckoutRequest{
			Items:         items,
			Phone:         req.Phone,
			Address:       req.Address,
			Instructions:  req.Instructions,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GetOrderHandler hides other customers' orders behind a 404.
func GetOrderHandler(orders *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		order, err := orders.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !id.Role.Staff() && order.Customer.ID != id.UserID {
			writeError(w, service.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func ListOrdersHandler(orders *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r)
		if err != nil {
			writeError(w, err)
			return
		}

		list, err := orders.List(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []model.Order{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type transitionRequest struct {
	Status string `json:"status"`
}

func TransitionHandler(orders *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		var req transitionRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		order, err := orders.Transition(r.Context(), chi.URLParam(r, "id"), req.Status, id.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func listOptions(r *http.Request) (service.ListOptions, error) {
	q := r.URL.Query()
	var opts service.ListOptions
	if raw := q.Get("status"); raw != "" {
		st, err := service.ParseStatus(raw)
		if err != nil {
			return opts, err
		}
		opts.Status = st
	}
	sort, err := service.ParseSort(q.Get("sort"))
	if err != nil {
		return opts, err
	}
	opts.Sort = sort
	opts.CustomerID = q.Get("customer")
	return opts, nil
}
