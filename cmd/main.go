package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visit-bot/config"
	telegram "visit-bot/internal/api"
	"visit-bot/internal/container"
	"visit-bot/internal/domain/port"
	"visit-bot/internal/infrastructure/observability"
	"visit-bot/internal/infrastructure/postgres"
	"visit-bot/internal/infrastructure/redis"
	"visit-bot/internal/infrastructure/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := postgres.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Postgres.RunMigrations {
		if err := postgres.RunMigrations(ctx, db.Pool, logger); err != nil {
			return err
		}
	}

	var guard port.NoticeGuard
	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		guard = redis.NewNoticeGuard(redisClient)
	}

	var (
		source    telegram.UpdateSource
		messenger telegram.Messenger
	)
	if cfg.Telegram.DryRun {
		logger.Warn("BOT_DRY_RUN enabled: outgoing messages are only logged")
		messenger = telegram.NewDryRunMessenger(logger)
	} else {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return err
		}
		logger.Info("authorized on account", zap.String("username", api.Self.UserName))
		source = api
		messenger = telegram.NewAPIMessenger(api)
	}

	metrics := observability.NewMetrics()
	states := storage.NewMemoryStateStore()
	metrics.TrackConversations(states.Len)

	appContainer := container.New(cfg, container.Dependencies{
		Participants: postgres.NewParticipantRepository(db.Pool),
		Shops:        postgres.NewShopRepository(db.Pool),
		Visits:       postgres.NewVisitRepository(db.Pool),
		States:       states,
		Notifier:     telegram.NewAdminNotifier(messenger, cfg.Access.AdminIDs, logger),
		Linker:       telegram.NewFileLinker(cfg.Telegram.Token),
		Guard:        guard,
		Metrics:      metrics,
		Logger:       logger,
	})

	bot := telegram.NewBot(source, messenger, appContainer, metrics, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})

	if cfg.Ops.MetricsAddr != "" {
		srv := telegram.NewOpsServer(cfg.Ops.MetricsAddr, metrics.Registry())
		g.Go(func() error {
			logger.Info("metrics server listening", zap.String("addr", cfg.Ops.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
