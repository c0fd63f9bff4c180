package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"canteen/internal/broker"
	"canteen/internal/config"
	"canteen/internal/database"
	"canteen/internal/handler"
	"canteen/internal/model"
	"canteen/internal/repository"
	"canteen/internal/repository/memory"
	"canteen/internal/repository/postgres"
	"canteen/internal/repository/redis"
	"canteen/internal/service"
	"canteen/internal/worker"
)

type stores struct {
	orders        repository.OrderRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	feedback      repository.FeedbackRepository
}

func main() {
	cfg := config.New()

	hostname, _ := os.Hostname()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("service", "canteen", "hostname", hostname)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := stores{
		orders:        memory.NewOrderRepository(),
		notifications: memory.NewNotificationRepository(),
		users:         memory.NewUserRepository(),
		feedback:      memory.NewFeedbackRepository(),
	}

	if cfg.DatabaseURI != "" {
		db, err := database.NewDB(ctx, cfg.DatabaseURI)
		if err != nil {
			slog.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer database.CloseDB(db)

		if err := database.InitSchema(ctx, db); err != nil {
			slog.Error("failed to init DB schema", "error", err)
			os.Exit(1)
		}
		st.orders = postgres.NewOrderRepository(db)
		st.users = postgres.NewUserRepository(db)
		st.feedback = postgres.NewFeedbackRepository(db)
		slog.Info("using postgres storage")
	}

	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		st.notifications = redis.NewNotificationRepository(rdb)
		slog.Info("using redis notification feeds")
	}

	var publisher service.Publisher = broker.LogPublisher{}
	if cfg.AMQPURL != "" {
		rmq, err := broker.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			slog.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer rmq.Close()
		publisher = rmq
	}

	var menuItems []model.MenuItem
	if cfg.MenuFile != "" {
		items, err := service.LoadMenuFile(cfg.MenuFile)
		if err != nil {
			slog.Error("failed to load menu", "error", err)
			os.Exit(1)
		}
		menuItems = items
	}
	menuSvc, err := service.NewMenuService(menuItems)
	if err != nil {
		slog.Error("invalid menu", "error", err)
		os.Exit(1)
	}

	// Services
	authSvc := service.NewAuthService(st.users)
	dispatcher := service.NewDispatcher(st.notifications, publisher)
	orderSvc := service.NewOrderService(st.orders, dispatcher, cfg.DeliveryFee)
	checkoutSvc := service.NewCheckoutService(menuSvc, service.NewPaymentSimulator(cfg.PaymentDelay, cfg.PaymentTimeout), orderSvc)

	seedStaff(ctx, authSvc, cfg)

	router := handler.NewRouter(handler.Services{
		Auth:       authSvc,
		Orders:     orderSvc,
		Checkout:   checkoutSvc,
		Dispatcher: dispatcher,
		Views:      service.NewViews(orderSvc, dispatcher),
		Feedback:   service.NewFeedbackService(st.feedback),
		Menu:       menuSvc,
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.DemoProgress {
		progress := worker.NewProgressWorker(orderSvc, cfg.DemoInterval)
		g.Go(func() error {
			progress.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShut()
		return srv.Shutdown(ctxShut)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func seedStaff(ctx context.Context, authSvc *service.AuthService, cfg *config.Config) {
	staff := []struct {
		login    string
		password string
		role     model.Role
	}{
		{"admin", cfg.AdminPassword, model.RoleAdmin},
		{"chef", cfg.ChefPassword, model.RoleChef},
		{"delivery", cfg.DeliveryPassword, model.RoleDelivery},
	}
	for _, s := range staff {
		if s.password == "" {
			continue
		}
		if err := authSvc.EnsureStaff(ctx, s.login, s.password, s.role); err != nil {
			slog.Error("failed to seed staff account", "login", s.login, "error", err)
			continue
		}
		slog.Info("staff account ready", "login", s.login, "role", s.role)
	}
}
