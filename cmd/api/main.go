package main

import (
	"context"
	"log"
	"time"

	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/core/config"
	"parcel-portal/internal/core/events"
	"parcel-portal/internal/core/httpclient"
	"parcel-portal/internal/core/inflight"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/proxy"
	"parcel-portal/internal/core/server"
	"parcel-portal/internal/core/waybill"
	authadapter "parcel-portal/internal/features/auth/adapters"
	authhandler "parcel-portal/internal/features/auth/handler"
	authservice "parcel-portal/internal/features/auth/service"
	historyadapter "parcel-portal/internal/features/history/adapters"
	historyhandler "parcel-portal/internal/features/history/handler"
	historyservice "parcel-portal/internal/features/history/service"
	labeladapter "parcel-portal/internal/features/labels/adapters"
	labelhandler "parcel-portal/internal/features/labels/handler"
	labelservice "parcel-portal/internal/features/labels/service"
	orderadapter "parcel-portal/internal/features/orders/adapters"
	orderhandler "parcel-portal/internal/features/orders/handler"
	orderservice "parcel-portal/internal/features/orders/service"
	pickupadapter "parcel-portal/internal/features/pickups/adapters"
	pickuphandler "parcel-portal/internal/features/pickups/handler"
	pickupservice "parcel-portal/internal/features/pickups/service"
	quoteadapter "parcel-portal/internal/features/quotes/adapters"
	quotehandler "parcel-portal/internal/features/quotes/handler"
	quoteservice "parcel-portal/internal/features/quotes/service"
	trackingadapter "parcel-portal/internal/features/tracking/adapters"
	trackinghandler "parcel-portal/internal/features/tracking/handler"
	trackingservice "parcel-portal/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// submissionLockTTL bounds how long an order or pickup submission may hold its lock.
const submissionLockTTL = 60 * time.Second

// @title Parcel Portal API
// @version 1.0
// @description Backend for the parcel shipping portal: quotes, sessions, orders, pickups, history, labels and tracking.
// @contact.name API Support
// @contact.email support@parcelportal.example
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	store, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	httpClient := httpclient.NewClient(cfg.Logistics.Timeout(), proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	})
	api := logistics.NewClient(cfg.Logistics.URL, httpClient)

	publisher, err := events.NewPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic)
	if err != nil {
		l.Fatal("Event publisher failed to start", zap.Error(err))
	}
	defer publisher.Close()

	registry := waybill.NewRegistry(store, cfg.Session.TTL())
	guard := inflight.NewGuard(store, submissionLockTTL)

	// Session gate
	sessions := authadapter.NewRedisSessionStore(store, cfg.Session.TTL())
	selections := authadapter.NewRedisSelectionStore(store, cfg.Session.PendingTTL())
	codec := authadapter.NewJWTCodec(cfg.Session.Secret, cfg.Session.TTL())
	mw := authhandler.NewSessionMiddleware(sessions, codec, cfg.Session.CookieName, cfg.Session.TTL(), cfg.Environment == "production")
	authSvc := authservice.NewAuthService(authadapter.NewLogisticsAuthenticator(api), sessions, selections)
	authHdl := authhandler.NewAuthHandler(authSvc, mw)

	quoteHdl := quotehandler.NewQuoteHandler(
		quoteservice.NewQuoteService(quoteadapter.NewLogisticsEstimateAdapter(api), cfg.Workflow.QuoteFallback),
	)

	orderHdl := orderhandler.NewOrderHandler(
		orderservice.NewOrderService(orderadapter.NewLogisticsOrderAdapter(api), registry, guard, publisher, cfg.Workflow.AllowFallbackOrders),
	)

	pickupHdl := pickuphandler.NewPickupHandler(
		pickupservice.NewPickupService(
			pickupadapter.NewLogisticsPickupAdapter(api),
			pickupadapter.NewRedisStateStore(store, cfg.Session.TTL()),
			registry,
			guard,
			publisher,
			cfg.Workflow.SimulatePlaceholderPickup,
		),
	)

	historyHdl := historyhandler.NewHistoryHandler(
		historyservice.NewHistoryService(historyadapter.NewLogisticsHistoryAdapter(api), historyadapter.NewXLSXRenderer()),
	)

	labelHdl := labelhandler.NewLabelHandler(
		labelservice.NewLabelService(labeladapter.NewLogisticsLabelAdapter(api), labeladapter.NewPDFRenderer(), registry),
	)

	trackingHdl := trackinghandler.NewTrackingHandler(
		trackingservice.NewTrackingService(trackingadapter.NewLogisticsTrackingAdapter(api), registry),
	)

	srv := server.New(cfg, authHdl.OnUnauthorized)

	srv.App.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return server.Fail(c, fiber.StatusServiceUnavailable, "cache unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Register Routes
	routes := srv.App.Group("/api", mw.Handle)
	routes.Post("/quotes", quoteHdl.Estimate)
	routes.Post("/selection", authHdl.Select)
	routes.Post("/auth/login", authHdl.Login)
	routes.Post("/auth/register", authHdl.Register)
	routes.Post("/auth/logout", authHdl.Logout)
	routes.Get("/auth/session", authHdl.Session)

	// Authenticated routes
	auth := authhandler.RequireAuth
	routes.Get("/orders/sender", auth, orderHdl.DefaultSender)
	routes.Post("/orders", auth, orderHdl.Submit)
	routes.Get("/address-book", auth, orderHdl.AddressBook)
	routes.Post("/pickups", auth, pickupHdl.Schedule)
	routes.Get("/pickups/availability", auth, pickupHdl.Availability)
	routes.Get("/pickups/:waybill", auth, pickupHdl.Status)
	routes.Get("/history", auth, historyHdl.Page)
	routes.Get("/history/export", auth, historyHdl.Export)
	routes.Get("/labels/:waybill", auth, labelHdl.Download)
	routes.Get("/tracking/:waybill", auth, trackingHdl.GetTrackingHistory)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
