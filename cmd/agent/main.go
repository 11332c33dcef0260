package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/communitykit/guild-agent/internal/api/http/handlers"
	"github.com/communitykit/guild-agent/internal/bot"
	"github.com/communitykit/guild-agent/internal/config"
	"github.com/communitykit/guild-agent/internal/events"
	"github.com/communitykit/guild-agent/internal/gateway/discord"
	"github.com/communitykit/guild-agent/internal/observability"
	"github.com/communitykit/guild-agent/internal/repository"
	"github.com/communitykit/guild-agent/internal/schedule"
	"github.com/communitykit/guild-agent/internal/service"
	"github.com/communitykit/guild-agent/internal/worker"

	httptransport "github.com/communitykit/guild-agent/internal/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	settings := config.NewGuildSettings()
	dispatcher := events.NewInMemoryDispatcher()

	accounts := repository.NewAccountRepository(nil)
	tickets := repository.NewTicketRepository()

	adapter, err := discord.NewAdapter(cfg.Discord, logger)
	if err != nil {
		logger.Fatal("failed to build gateway adapter", zap.Error(err))
	}

	economyService := service.NewEconomyService(service.EconomyDependencies{
		Accounts:   accounts,
		Dispatcher: dispatcher,
		Config:     cfg.Economy,
	})

	ticketService := service.NewTicketService(service.TicketDependencies{
		Tickets:    tickets,
		Channels:   adapter,
		Roles:      adapter,
		Dispatcher: dispatcher,
		Settings:   settings,
		Config:     cfg.Tickets,
		Scheduler:  schedule.NewTimerScheduler(),
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	commandDispatcher := bot.NewDispatcher(bot.DispatcherDependencies{
		Economy:  economyService,
		Tickets:  ticketService,
		Settings: settings,
		Channels: adapter,
		Metrics:  metrics,
		Logger:   logger,
	})

	adapter.BindDispatcher(commandDispatcher)
	if err := adapter.Open(); err != nil {
		logger.Fatal("failed to connect gateway", zap.Error(err))
	}
	defer adapter.Close() //nolint:errcheck

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Stats:  handlers.NewStatsHandler(economyService, ticketService, metrics),
	})

	go func() {
		if err := app.Listen(cfg.Ops.Addr()); err != nil {
			logger.Fatal("ops server listen", zap.Error(err))
		}
	}()

	logger.Info("agent running",
		zap.String("env", cfg.App.Env),
		zap.String("ops_addr", cfg.Ops.Addr()))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
