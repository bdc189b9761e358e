package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	laundryserver "github.com/Apurer/laundry-backoffice/server"

	authmemory "github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/memory"
	authpostgres "github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/persistence/postgres"
	authredis "github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/redis"
	authapp "github.com/Apurer/laundry-backoffice/internal/domains/auth/application"
	authdomain "github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	authports "github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"

	notifmemory "github.com/Apurer/laundry-backoffice/internal/domains/notifications/adapters/memory"
	notifpostgres "github.com/Apurer/laundry-backoffice/internal/domains/notifications/adapters/persistence/postgres"
	notifsmtp "github.com/Apurer/laundry-backoffice/internal/domains/notifications/adapters/smtp"
	notifapp "github.com/Apurer/laundry-backoffice/internal/domains/notifications/application"
	notifports "github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"

	ordersmemory "github.com/Apurer/laundry-backoffice/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/laundry-backoffice/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/laundry-backoffice/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/laundry-backoffice/internal/domains/orders/application"
	ordersports "github.com/Apurer/laundry-backoffice/internal/domains/orders/ports"

	platformmigrations "github.com/Apurer/laundry-backoffice/internal/platform/migrations"
	platformobservability "github.com/Apurer/laundry-backoffice/internal/platform/observability"
	platformpostgres "github.com/Apurer/laundry-backoffice/internal/platform/postgres"
	platformredis "github.com/Apurer/laundry-backoffice/internal/platform/redis"
)

const serviceName = "laundry-backoffice-api"

// Run boots the laundry back-office HTTP API with observability,
// repositories, rate limiting, and mail delivery wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.MaybeConnect(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	if err := platformmigrations.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	redisClient, closeRedis := platformredis.MaybeConnect(ctx, cfg.RedisAddr, logger)
	defer closeRedis()

	var limiter authports.RateLimiter = authmemory.NewRateLimiter()
	if redisClient != nil {
		limiter = authredis.NewRateLimiter(redisClient, serviceName)
		logger.Info("rate limiter configured with redis")
	}

	var sessions authports.SessionStore = authmemory.NewSessionStore()
	if db != nil {
		sessions = authpostgres.NewSessionStore(db)
		logger.Info("session store configured with postgres")
	}

	directory := authmemory.NewUserDirectory()
	var seededAdmin *authdomain.User
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := directory.Seed(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, authdomain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		seededAdmin = admin
	} else {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, no admin account seeded")
	}
	var users authports.UserRepository = directory
	if db != nil {
		pgUsers := authpostgres.NewUserRepository(db)
		// The seeded admin must exist in the users table too, or admin
		// fan-out on new orders would address nobody.
		if seededAdmin != nil {
			if err := pgUsers.Upsert(ctx, seededAdmin); err != nil {
				return fmt.Errorf("failed to sync admin account: %w", err)
			}
		}
		users = pgUsers
	}

	guard := authapp.NewGuardRail(sessions, limiter,
		authapp.WithSessionTimeout(cfg.SessionTimeout),
		authapp.WithLogger(logger),
	)
	sessionService := authapp.NewSessionService(directory, sessions, limiter, logger)

	mailer := notifports.NoopMailer
	if cfg.SMTPHost != "" {
		mailer = notifsmtp.NewMailer(notifsmtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
		logger.Info("mailer configured with smtp", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Warn("SMTP_HOST not set, emails disabled")
	}

	var notifRepo notifports.Repository = notifmemory.NewRepository()
	if db != nil {
		notifRepo = notifpostgres.NewRepository(db)
	}
	dispatcher := notifapp.NewDispatcher(notifRepo, mailer, users, logger)
	inbox := notifapp.NewInbox(notifRepo)

	var orderRepo ordersports.Repository = ordersmemory.NewRepository()
	if db != nil {
		orderRepo = orderspostgres.NewRepository(db)
		logger.Info("order repository configured with postgres")
	}
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, guard, dispatcher, ordersapp.WithLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	handlers := laundryserver.ApiHandleFunctions{
		OrdersAPI:        laundryserver.NewOrdersAPI(orderService, guard),
		NotificationsAPI: laundryserver.NewNotificationsAPI(inbox, guard),
		SessionsAPI:      laundryserver.NewSessionsAPI(sessionService),
	}

	router := laundryserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("laundry back-office API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
