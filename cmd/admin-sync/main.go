package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/chamber122/chamber122-backend/api"
	"github.com/chamber122/chamber122-backend/internal/adminsync"
	"github.com/chamber122/chamber122-backend/internal/cron"
	"github.com/chamber122/chamber122-backend/pkg/config"
	"github.com/chamber122/chamber122-backend/pkg/db"
	"github.com/chamber122/chamber122-backend/pkg/kvstore"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/metrics"
	"github.com/chamber122/chamber122-backend/pkg/migrate"
	"github.com/chamber122/chamber122-backend/pkg/redis"
)

const serviceName = "admin-sync"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	var opts options
	flag.StringVar(&opts.Cmd, "cmd", "run", "run|once|list|stats|documents|messages|approve|reject|suspend|unsuspend|unapprove|needs-fix|delete|prune-demo")
	flag.StringVar(&opts.ID, "id", "", "user id for account actions")
	flag.StringVar(&opts.Reason, "reason", "", "reason for reject/suspend")
	flag.StringVar(&opts.Kind, "kind", "", "document kind for needs-fix")
	flag.StringVar(&opts.Subject, "subject", "", "message subject for needs-fix")
	flag.StringVar(&opts.Message, "message", "", "message body for needs-fix")
	flag.StringVar(&opts.Search, "search", "", "search term for list")
	flag.StringVar(&opts.Status, "status", "", "status filter for list")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"mode":  cfg.AdminSync.Mode,
		"store": cfg.AdminSync.Store,
		"cmd":   opts.Cmd,
	})

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	kv, closeStore, err := openStore(ctx, cfg, logg, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to open admin store", err)
		os.Exit(1)
	}
	defer closeStore()

	remote, err := newRemote(cfg)
	if err != nil {
		logg.Error(ctx, "failed to build remote", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	localStore, err := adminsync.NewLocalStore(kv)
	if err != nil {
		logg.Error(ctx, "failed to build local store", err)
		os.Exit(1)
	}
	syncer, err := adminsync.NewSyncer(adminsync.SyncerParams{
		Store:             localStore,
		Remote:            remote,
		Logger:            logg,
		Metrics:           metrics.NewSyncMetrics(reg),
		PlaceholderDomain: cfg.AdminSync.PlaceholderDomain,
		DefaultCountry:    cfg.AdminSync.DefaultCountry,
		Concurrency:       cfg.AdminSync.Concurrency,
	})
	if err != nil {
		logg.Error(ctx, "failed to build syncer", err)
		os.Exit(1)
	}

	if !strings.EqualFold(opts.Cmd, "run") {
		if err := runCommand(ctx, syncer, opts, os.Stdout); err != nil {
			logg.Error(ctx, "admin command failed", err)
			os.Exit(1)
		}
		return
	}

	if err := runWorker(ctx, cfg, logg, syncer, redisClient, reg); err != nil {
		logg.Error(ctx, "admin sync worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "admin sync worker shutting down gracefully")
}

func runWorker(ctx context.Context, cfg *config.Config, logg *logger.Logger, syncer *adminsync.Syncer, redisClient *redis.Client, reg *prometheus.Registry) error {
	job, err := adminsync.NewSyncJob(syncer)
	if err != nil {
		return err
	}

	var lock cron.Lock = cron.NewLocalLock()
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(serviceName, cfg.App.Env), cfg.AdminSync.LockTTL)
		if err != nil {
			return fmt.Errorf("create cron lock: %w", err)
		}
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.AdminSync.Interval,
	})
	if err != nil {
		return fmt.Errorf("create cron service: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsServer := api.NewServer(cfg.AdminSync.MetricsAddr, mux)

	logg.Info(logg.WithField(ctx, "interval", cfg.AdminSync.Interval.String()), "starting admin sync worker")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(gctx, metricsServer, logg)
	})
	g.Go(func() error {
		if err := service.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

// openStore selects the key-value backend for the admin view.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (kvstore.Store, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(cfg.AdminSync.Store)) {
	case config.StoreBackendMemory:
		logg.Warn(ctx, "memory store selected; admin state is lost on exit")
		return kvstore.NewMemory(), noop, nil
	case config.StoreBackendRedis:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis store selected but redis is not configured")
		}
		store, err := kvstore.NewRedisStore(redisClient)
		return store, noop, err
	default:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap database: %w", err)
		}
		closeDB := func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			closeDB()
			return nil, noop, fmt.Errorf("dev migrations: %w", err)
		}
		store, err := kvstore.NewDBStore(dbClient.DB())
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return store, closeDB, nil
	}
}

// newRemote builds the backend adapter. Connected mode signs requests with
// a short-lived admin service token that is renewed before it expires.
func newRemote(cfg *config.Config) (adminsync.Remote, error) {
	if cfg.AdminSync.Offline() {
		return adminsync.NewOfflineRemote(), nil
	}
	tokens := newAdminTokenSource(cfg.JWT, cfg.AdminSync.AdminUserID, time.Now)
	if _, err := tokens.Token(context.Background()); err != nil {
		return nil, err
	}
	remote, err := adminsync.NewHTTPRemote(cfg.AdminSync.APIBaseURL,
		adminsync.WithTokenSource(tokens.Token),
		adminsync.WithTimeout(cfg.AdminSync.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}
	return remote, nil
}
