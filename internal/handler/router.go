package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"canteen/internal/model"
	"canteen/internal/mw"
	"canteen/internal/service"
)

type Services struct {
	Auth       *service.AuthService
	Orders     *service.OrderService
	Checkout   *service.CheckoutService
	Dispatcher *service.Dispatcher
	Views      *service.Views
	Feedback   *service.FeedbackService
	Menu       *service.MenuService
}

func NewRouter(svc Services, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public routes
	r.Post("/api/user/register", RegisterHandler(svc.Auth, jwtSecret))
	r.Post("/api/user/login", LoginHandler(svc.Auth, jwtSecret))
	r.Get("/api/menu", MenuHandler(svc.Menu))
	r.Get("/api/feedback", FeedbackBoardHandler(svc.Feedback))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(jwtSecret))

		r.Post("/api/feedback", SubmitFeedbackHandler(svc.Feedback))
		r.Get("/api/notifications", ListNotificationsHandler(svc.Dispatcher))
		r.Delete("/api/notifications", ClearNotificationsHandler(svc.Dispatcher))

		r.Get("/api/orders/{id}", GetOrderHandler(svc.Orders))
		r.Post("/api/orders/{id}/status", TransitionHandler(svc.Orders))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(model.RoleCustomer))
			r.Post("/api/orders", CheckoutHandler(svc.Checkout))
			r.Get("/api/views/customer", CustomerViewHandler(svc.Views))
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(model.RoleChef, model.RoleDelivery, model.RoleAdmin))
			r.Get("/api/orders", ListOrdersHandler(svc.Orders))
			r.Get("/api/views/chef", ChefViewHandler(svc.Views))
		})

		r.With(mw.RequireRole(model.RoleAdmin)).Get("/api/views/admin", AdminViewHandler(svc.Views))
	})

	return r
}
