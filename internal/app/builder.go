package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"hojyokin-go/internal/config"
	"hojyokin-go/internal/httpapi"
	"hojyokin-go/internal/jgrants"
	"hojyokin-go/internal/localstore"
	"hojyokin-go/internal/logger"
	"hojyokin-go/internal/metrics"
	"hojyokin-go/internal/scheduler"
)

type Builder struct {
	cfg config.Config

	log       *slog.Logger
	store     *localstore.Store
	api       httpapi.Searcher
	metrics   *metrics.Metrics
	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{cfg: cfg}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithLogger(log *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = log
	}
}

func WithStore(store *localstore.Store) BuilderOption {
	return func(b *Builder) {
		b.store = store
	}
}

func WithSearcher(api httpapi.Searcher) BuilderOption {
	return func(b *Builder) {
		b.api = api
	}
}

func WithMetrics(m *metrics.Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

func WithScheduler(scheduler *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = scheduler
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.log == nil {
		b.log = logger.New("server")
	}

	app := &App{Config: b.cfg, Log: b.log}

	if b.store == nil {
		b.store = localstore.New(b.cfg.DataDir, b.log)
	}
	if err := b.store.Reload(ctx); err != nil {
		b.log.Warn("initial dump load failed", "dir", b.cfg.DataDir, "err", err)
	}
	app.Store = b.store

	if b.api == nil {
		b.api = jgrants.NewClient(b.cfg.JGrantsBaseURL, b.cfg.APITimeout)
	}
	app.API = b.api

	if b.metrics == nil {
		store := b.store
		b.metrics = metrics.New(nil, func() float64 { return float64(store.Count()) })
	}
	app.Metrics = b.metrics

	if b.scheduler == nil {
		b.scheduler = scheduler.New(b.cfg.ReloadCron, b.store, b.log)
	}
	app.Scheduler = b.scheduler

	if b.server == nil {
		handler := httpapi.NewHandler(b.api, b.store, b.metrics, b.log)
		b.server = &http.Server{
			Addr:              b.cfg.ListenAddr(),
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	app.Server = b.server

	return app, nil
}
