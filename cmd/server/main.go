package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/account"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/db"
	"storefront-be/internal/handler"
	"storefront-be/internal/invoice"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/notification"
	"storefront-be/internal/order"
	"storefront-be/internal/settings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, h http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := newServer(cfg, database)
	seedBillingProfile(ctx, cfg, srv.settings)
	go srv.limiter.Cleanup(ctx, time.Minute, 10*time.Minute)

	logger.L().Info("HTTP server listening",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.Bool("strict_transitions", cfg.StrictOrderTransitions),
	)
	if err := startServerFunc(":"+cfg.AppPort, srv); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// server is the wired application. It serves HTTP and keeps the pieces
// run needs for startup chores.
type server struct {
	handler  http.Handler
	limiter  *middleware.Limiter
	settings settings.Service
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func newServer(cfg *config.Config, database *sql.DB) *server {
	exposeInternal := !cfg.IsProduction()
	registry := metrics.NewRegistry()

	accountRepo := account.NewRepository(database)

	settingsSvc := settings.NewService(settings.NewRepository(database))

	couponSvc := coupon.NewService(coupon.NewRepository(database))

	dispatcher := notification.NewDispatcher(newSender(cfg), accountRepo, registry)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, couponSvc, dispatcher, order.PolicyFor(cfg.StrictOrderTransitions))

	invoiceSvc := invoice.NewService(invoice.NewRepository(database), orderRepo, settingsSvc, accountRepo)

	limiter := middleware.NewLimiter(cfg.InternalSecretKey)

	router := handler.NewRouter(handler.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		InternalKey:    cfg.InternalSecretKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        limiter,
	}, handler.Handlers{
		Orders:   handler.NewOrderHandler(orderSvc, exposeInternal),
		Coupons:  handler.NewCouponHandler(couponSvc, exposeInternal),
		Invoices: handler.NewInvoiceHandler(invoiceSvc, exposeInternal),
		Settings: handler.NewSettingsHandler(settingsSvc, exposeInternal),
		Health:   handler.NewHealthHandler(database, registry),
	})

	return &server{handler: router, limiter: limiter, settings: settingsSvc}
}

func newSender(cfg *config.Config) notification.Sender {
	if cfg.EmailWebhookURL == "" {
		logger.L().Warn("EMAIL_WEBHOOK_URL not set, notifications will only be logged")
		return notification.LogSender{}
	}
	return notification.NewWebhookSender(cfg.EmailWebhookURL, cfg.EmailWebhookToken, cfg.EmailFrom)
}

// seedBillingProfile stores the TOML company profile as the billing
// profile unless one already exists. Failures are logged, not fatal.
func seedBillingProfile(ctx context.Context, cfg *config.Config, svc settings.Service) {
	log := logger.L().With(zap.String("file", cfg.CompanyProfileFile))

	profile, err := config.LoadCompanyProfile(cfg.CompanyProfileFile)
	if err != nil {
		log.Warn("company profile not loaded", zap.Error(err))
		return
	}

	if err := svc.EnsureDefault(ctx, settings.FromCompanyProfile(profile)); err != nil {
		log.Warn("seeding billing profile failed", zap.Error(err))
	}
}
