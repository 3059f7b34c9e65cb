package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/api/handler"
	"github.com/sanosuguru/go-parking-reservation/internal/api/router"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-parking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-parking-reservation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTPサーバーと期限切れホールドの掃除を起動する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.Env)
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "起動時にマイグレーションを適用する")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrateUp bool) error {
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateUp {
		if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
			return err
		}
		logger.Info("マイグレーションを適用しました")
	}

	var redisClient *redis.Client
	if needsRedis(cfg) {
		redisClient, err = redisinfra.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	m := metrics.Init()
	sysClock := clock.NewSystem()

	holds, err := newHoldStore(cfg, redisClient, sysClock)
	if err != nil {
		return err
	}

	var cache redisinfra.InventoryCacheInterface
	if cfg.Reservation.InventoryCacheTTL > 0 {
		cache = redisinfra.NewInventoryCache(redisClient)
	}
	inventory := application.NewCachedInventory(postgres.NewSpaceRepository(db), cache, cfg.Reservation.InventoryCacheTTL)
	ledger := postgres.NewReservationRepository(db)

	opts := []application.ReservationOption{
		application.WithMetrics(m),
		application.WithClock(sysClock),
	}
	if cfg.Reservation.SpaceLockTTL > 0 {
		opts = append(opts, application.WithSpaceLock(redisinfra.NewLockManager(redisClient), cfg.Reservation.SpaceLockTTL))
	}

	engine := application.NewAvailabilityEngine(inventory, ledger, holds, application.WithEngineClock(sysClock))
	reservationService := application.NewReservationService(engine, holds, ledger, postgres.NewTxManager(db), opts...)
	spaceService := application.NewSpaceService(inventory)

	sweeper := worker.NewExpiredHoldSweeper(reservationService, cfg.Reservation.HoldSweepInterval)
	go sweeper.Start(ctx)
	defer sweeper.Stop()

	e := router.New(router.Deps{
		Reservations: reservationService,
		Spaces:       spaceService,
		Health:       healthDependencies(db, redisClient),
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		MetricsAuth:  cfg.Metrics,
	})

	return runServer(ctx, e, cfg.Server)
}

// needsRedis はRedisを使うコンポーネントが1つでも有効かを返す
func needsRedis(cfg *config.Config) bool {
	return cfg.Reservation.HoldStore == config.HoldStoreRedis ||
		cfg.Reservation.InventoryCacheTTL > 0 ||
		cfg.Reservation.SpaceLockTTL > 0
}

func newHoldStore(cfg *config.Config, client *redis.Client, clk clock.Clock) (hold.Store, error) {
	switch cfg.Reservation.HoldStore {
	case config.HoldStoreRedis:
		return redisinfra.NewHoldStore(client, clk), nil
	case config.HoldStoreMemory:
		logger.Warn("ホールドをプロセス内メモリに保存します。複数インスタンス構成では使用しないでください")
		return memory.NewHoldStore(clk), nil
	}
	return nil, fmt.Errorf("未対応の HOLD_STORE です: %q", cfg.Reservation.HoldStore)
}

func healthDependencies(db *sqlx.DB, client *redis.Client) []handler.Dependency {
	deps := []handler.Dependency{
		{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}
	if client != nil {
		deps = append(deps, handler.Dependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, client) },
		})
	}
	return deps
}

func runServer(ctx context.Context, e *echo.Echo, cfg config.ServerConfig) error {
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("サーバー起動エラー: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
	}

	logger.Info("サーバーが正常にシャットダウンしました")
	return nil
}
