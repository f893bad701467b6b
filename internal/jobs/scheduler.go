package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"marketplace/client/internal/config"
	"marketplace/client/internal/models"
)

type ProductLoader interface {
	LoadAll(ctx context.Context) ([]models.Product, error)
}

type SessionChecker interface {
	CheckExpiry(ctx context.Context, now time.Time) (bool, error)
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      config.JobsConfig
	products ProductLoader
	session  SessionChecker
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, products ProductLoader, session SessionChecker, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		products: products,
		session:  session,
		timeout:  30 * time.Second,
		now:      time.Now,
		log:      log,
	}
}

// Start registers the jobs whose schedule is non-empty and starts the cron
// loop.
func (s *Scheduler) Start() error {
	if s.cfg.ProductRefresh != "" && s.products != nil {
		if _, err := s.cron.AddFunc(s.cfg.ProductRefresh, s.RefreshProducts); err != nil {
			return err
		}
	}
	if s.cfg.SessionCheck != "" && s.session != nil {
		if _, err := s.cron.AddFunc(s.cfg.SessionCheck, s.CheckSession); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits up to five seconds for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("jobs still running at shutdown")
	}
}

func (s *Scheduler) RefreshProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	list, err := s.products.LoadAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("product refresh failed")
		return
	}
	s.log.Debug().Int("count", len(list)).Msg("products refreshed")
}

func (s *Scheduler) CheckSession() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.session.CheckExpiry(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("session check failed")
		return
	}
	if expired {
		s.log.Info().Msg("session expired, logged out")
	}
}
