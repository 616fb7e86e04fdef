package cmd

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
	"github.com/felixgeelhaar/courtdesk/internal/config"
	"github.com/felixgeelhaar/courtdesk/internal/errors"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/portal"
	"github.com/felixgeelhaar/courtdesk/internal/session"
	"github.com/felixgeelhaar/courtdesk/internal/storage"
	"github.com/felixgeelhaar/courtdesk/internal/toast"
)

// app is everything a command needs, wired once per process.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	kv       storage.KV
	store    *session.Store
	toasts   *toast.Queue
	client   *api.Client
	portal   *portal.Portal
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("api-url") {
		cfg.API.URL = apiURL
	}
	if flags.Changed("ephemeral") {
		cfg.Storage.Ephemeral = ephemeral
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads configuration, opens session storage and restores any
// persisted session. Callers must Close the result.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := log.New(cfg.LogConfig())
	log.SetDefaultLogger(logger)

	reg, m := metrics.NewProcessRegistry()

	var kv storage.KV
	if cfg.Storage.Ephemeral {
		kv = storage.NewMemoryKV()
	} else {
		db, err := storage.OpenSQLite(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		kv = db
	}

	store := session.NewStore(kv, session.WithLogger(logger), session.WithMetrics(m))
	store.Hydrate(ctx)

	queue := toast.NewQueue(
		toast.WithDefaultDuration(cfg.Toasts.Duration),
		toast.WithLogger(logger),
		toast.WithMetrics(m),
	)
	client := api.New(api.Config{BaseURL: cfg.API.URL, Timeout: cfg.API.Timeout}, store,
		api.WithLogger(logger),
		api.WithMetrics(m),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  m,
		kv:       kv,
		store:    store,
		toasts:   queue,
		client:   client,
		portal:   portal.New(store, queue, client, portal.WithLogger(logger), portal.WithMetrics(m)),
	}, nil
}

// requireSession fails with a login hint when nobody is signed in.
func (a *app) requireSession() (*session.User, error) {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated() {
		return nil, errors.NewNotLoggedInError()
	}
	return snap.User, nil
}

func (a *app) Close() error {
	a.toasts.Close()
	return a.kv.Close()
}
