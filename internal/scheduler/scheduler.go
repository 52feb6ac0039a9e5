package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"hojyokin-go/internal/localstore"
)

// Scheduler re-reads the local dump directory on a cron spec, so dumps
// written by the scraper show up without a server restart.
type Scheduler struct {
	cron  *cron.Cron
	store *localstore.Store
	spec  string
	log   *slog.Logger
}

func New(spec string, store *localstore.Store, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		store: store,
		spec:  spec,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.store.Reload(context.Background()); err != nil {
			s.log.Error("scheduled dump reload failed", "err", err)
			return
		}
		s.log.Debug("scheduled dump reload done", "records", s.store.Count())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
