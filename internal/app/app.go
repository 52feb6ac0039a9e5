package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"hojyokin-go/internal/config"
	"hojyokin-go/internal/httpapi"
	"hojyokin-go/internal/localstore"
	"hojyokin-go/internal/metrics"
	"hojyokin-go/internal/scheduler"
)

type App struct {
	Config    config.Config
	Log       *slog.Logger
	Store     *localstore.Store
	API       httpapi.Searcher
	Metrics   *metrics.Metrics
	Scheduler *scheduler.Scheduler
	Server    *http.Server
}

func (a *App) Start() error {
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	go func() {
		a.Log.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Error("http server error", "err", err)
			os.Exit(1)
		}
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	return a.Server.Shutdown(ctx)
}
