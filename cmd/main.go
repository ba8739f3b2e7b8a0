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

	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/http/api"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/http/swagger"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/mq/queue"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/mq/worker"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/notify"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/provision"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/repository"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/adapters/rostersource"
	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/config"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/domain/capmath"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/logger"
	"github.com/SamHedgehogs/nba2k-league-bot/pkg/metrics"
	"github.com/shopspring/decimal"
)

// HTTP server timeout constants.
const (
	readTimeout         = 10 * time.Second
	writeTimeout        = 40 * time.Second
	idleTimeout         = 60 * time.Second
	readHeaderTimeout   = 5 * time.Second
	shutdownTimeout     = 30 * time.Second
	queueMetricsPeriod  = 5 * time.Second
	feedMessagesPerChan = 200
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open league store", logger.String("driver", cfg.StoreDriver), logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			loggerInstance.Error(ctx, "store close failed", logger.Error(err))
		}
	}()

	feed := notify.NewFeed(feedMessagesPerChan)
	svc, err := newService(cfg, store, feed, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build league service", logger.Error(err))
		return
	}

	// Deferred command pipeline.
	jobs := queue.NewInMemoryQueue(queue.WithCapacity(cfg.QueueSize))
	pool := worker.NewPool(cfg.WorkerCount, jobs, worker.WithLogger(loggerInstance))
	pool.Start(ctx)
	go updateQueueMetrics(ctx, jobs)

	inbox := gateway.NewInbox()
	dispatcher := gateway.NewDispatcher(svc, gateway.WithQueue(jobs), gateway.WithLogger(loggerInstance.Named("gateway")))

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(dispatcher, inbox, feed).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
			logger.String("season", cfg.Season),
			logger.Int("workers", pool.Size()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// openStore opens the configured league state backend.
func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		store, err := repository.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreDriverFile:
		store, err := repository.NewFileStore(cfg.StorePath, repository.WithIndent(true))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.StoreDriver)
	}
}

// newService wires the league service from configuration. An empty roster
// URL leaves resync disabled.
func newService(cfg *config.Config, store repository.Store, feed *notify.Feed, l logger.Logger) (*service.Service, error) {
	thresholds, err := capmath.NewThresholds(cfg.CapFloor, cfg.SoftCap, cfg.HardCap)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithStore(store),
		service.WithNotifier(notify.Multi{feed, notify.NewLogNotifier(l.Named("notify"))}),
		service.WithProvisioner(provision.NewRegistry()),
		service.WithThresholds(thresholds),
		service.WithSeason(cfg.Season),
		service.WithApronMultiplier(decimal.NewFromFloat(cfg.ApronMultiplier)),
		service.WithApproverRole(cfg.ApproverRole),
		service.WithAliases(cfg.TeamAliases),
		service.WithChannels(cfg.ApprovalChannel, cfg.PublicChannel),
		service.WithTeamCategory(cfg.TeamCategory),
		service.WithLogger(l.Named("league")),
	}
	if cfg.RosterURL != "" {
		src, err := rostersource.New(cfg.RosterURL,
			rostersource.WithTimeout(time.Duration(cfg.RosterTimeoutSec)*time.Second),
			rostersource.WithLogger(l.Named("rostersource")))
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithRosterSource(src))
	}
	return service.New(opts...), nil
}

// updateQueueMetrics publishes the pending job count until ctx ends.
func updateQueueMetrics(ctx context.Context, q queue.Queue) {
	ticker := time.NewTicker(queueMetricsPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateQueueSize(q.Len(ctx))
		}
	}
}
