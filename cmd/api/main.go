package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/partnership-gateway/internal/config"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/handler"
	"github.com/kursadbilgin/partnership-gateway/internal/infra/postgresql"
	"github.com/kursadbilgin/partnership-gateway/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/partnership-gateway/internal/infra/redis"
	"github.com/kursadbilgin/partnership-gateway/internal/integration"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"github.com/kursadbilgin/partnership-gateway/internal/secret"
	"github.com/kursadbilgin/partnership-gateway/internal/service"
	"github.com/kursadbilgin/partnership-gateway/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, logger, err := bootstrap()
	if err != nil {
		log.Fatalf("partnership-gateway failed to start: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("partnership-gateway stopped with error", zap.Error(err))
	}
}

// bootstrap loads what is needed before structured logging is available.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN, postgresql.PoolOptions{})
	if err != nil {
		return fmt.Errorf("postgres initialization failed: %w", err)
	}
	if err := migrations.Migrate(db); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres underlying db init failed: %w", err)
	}
	defer sqlDB.Close()

	box, err := secret.NewFromBase64(cfg.CredentialsKey)
	if err != nil {
		return fmt.Errorf("credentials key is invalid: %w", err)
	}
	if !box.Enabled() {
		logger.Warn("CREDENTIALS_KEY not set, provider credentials are stored unencrypted")
	}

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, infraredis.RateLimiterOptions{
		LimitPerSec: cfg.RateLimitPerSec,
		ProviderLimits: map[domain.Provider]int{
			domain.ProviderSlack: cfg.SlackRateLimitPerSec,
		},
	})
	if err != nil {
		return fmt.Errorf("rate limiter initialization failed: %w", err)
	}

	broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		return fmt.Errorf("rabbitmq initialization failed: %w", err)
	}
	defer broker.Close()
	publisher := queue.NewRabbitMQPublisher(broker)
	consumer := queue.NewRabbitMQConsumer(broker, cfg.AgendaWorkerConcurrency, logger)

	integrations := repository.NewGormIntegrationRepo(db, box)
	agendaStore := repository.NewGormAgendaRepo(db)
	metrics := observability.NewMetrics()

	gateways, err := newGateways(cfg, integrations, agendaStore)
	if err != nil {
		return err
	}

	integrationService, err := service.NewIntegrationService(
		integration.Registrars(integrations), integration.NewDeserializer(), integrations, logger)
	if err != nil {
		return err
	}
	statusService, err := service.NewStatusService(integrations, gateways.status, logger)
	if err != nil {
		return err
	}
	notificationService, err := service.NewNotificationService(
		integrations, gateways.notification, gateways.templates, limiter, cfg.FanoutConcurrency, logger)
	if err != nil {
		return err
	}
	webhookService, err := service.NewWebhookService(integrations, gateways.webhook, limiter, cfg.FanoutConcurrency, logger)
	if err != nil {
		return err
	}
	billingService, err := service.NewBillingService(integrations, gateways.billing, logger)
	if err != nil {
		return err
	}
	ticketingService, err := service.NewTicketingService(integrations, gateways.ticketing, logger)
	if err != nil {
		return err
	}
	agendaService, err := service.NewAgendaService(integrations, gateways.agenda, publisher, logger)
	if err != nil {
		return err
	}
	worker, err := service.NewAgendaWorker(agendaService, consumer, cfg.AgendaWorkerConcurrency, logger)
	if err != nil {
		return err
	}
	scheduler, err := service.NewAgendaScheduler(integrations, publisher, cfg.AgendaSyncInterval, logger)
	if err != nil {
		return err
	}

	statusService.SetMetrics(metrics)
	notificationService.SetMetrics(metrics)
	webhookService.SetMetrics(metrics)
	billingService.SetMetrics(metrics)
	ticketingService.SetMetrics(metrics)
	agendaService.SetMetrics(metrics)
	worker.SetMetrics(metrics)
	scheduler.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		AppName:      observability.ServiceName,
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(observability.CorrelationMiddleware())
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	handler.RegisterHealthRoutes(app, map[string]handler.Pinger{
		"postgres": handler.PingerFunc(sqlDB.PingContext),
		"redis": handler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		"rabbitmq": handler.PingerFunc(func(context.Context) error {
			if !broker.Connected() {
				return errors.New("rabbitmq connection closed")
			}
			return nil
		}),
	})
	if err := handler.RegisterIntegrationRoutes(app, integrationService, statusService); err != nil {
		return err
	}
	err = handler.RegisterDispatchRoutes(app, handler.DispatchServices{
		Notifications: notificationService,
		Webhooks:      webhookService,
		Billing:       billingService,
		Ticketing:     ticketingService,
		Agenda:        agendaService,
	})
	if err != nil {
		return err
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Start(groupCtx)
	})
	g.Go(func() error {
		return scheduler.Start(groupCtx)
	})
	g.Go(func() error {
		logger.Info("partnership-gateway api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	return g.Wait()
}

type gatewaySet struct {
	notification []gateway.NotificationGateway
	templates    []gateway.TemplateGateway
	webhook      []gateway.WebhookGateway
	billing      []gateway.BillingGateway
	ticketing    []gateway.TicketingGateway
	agenda       []gateway.AgendaGateway
	status       []gateway.StatusGateway
}

func newGateways(cfg *config.Config, configs repository.ConfigReader, agenda repository.AgendaRepository) (*gatewaySet, error) {
	client := gateway.NewHTTPClient(cfg.GatewayTimeout)

	slack, err := gateway.NewSlackGateway(configs, client, cfg.SlackAPIURL)
	if err != nil {
		return nil, err
	}
	mailjet, err := gateway.NewMailjetGateway(configs, client, cfg.MailjetAPIURL)
	if err != nil {
		return nil, err
	}
	webhook, err := gateway.NewHTTPWebhookGateway(configs, client)
	if err != nil {
		return nil, err
	}
	qonto, err := gateway.NewQontoGateway(configs, client, cfg.QontoAPIURL)
	if err != nil {
		return nil, err
	}
	billetweb, err := gateway.NewBilletwebGateway(configs, client, cfg.BilletwebAPIURL)
	if err != nil {
		return nil, err
	}
	openPlanner, err := gateway.NewOpenPlannerGateway(configs, agenda, client, cfg.OpenPlannerAPIURL)
	if err != nil {
		return nil, err
	}
	slackTemplates, err := gateway.NewSlackTemplates()
	if err != nil {
		return nil, err
	}
	mailjetTemplates, err := gateway.NewMailjetTemplates()
	if err != nil {
		return nil, err
	}

	return &gatewaySet{
		notification: []gateway.NotificationGateway{slack, mailjet},
		templates:    []gateway.TemplateGateway{slackTemplates, mailjetTemplates},
		webhook:      []gateway.WebhookGateway{webhook},
		billing:      []gateway.BillingGateway{qonto},
		ticketing:    []gateway.TicketingGateway{billetweb},
		agenda:       []gateway.AgendaGateway{openPlanner},
		status:       []gateway.StatusGateway{slack, mailjet, webhook, qonto, billetweb, openPlanner},
	}, nil
}
