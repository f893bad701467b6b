// Package app assembles the client: one session store per process plus the
// product and media stores, the router and the background jobs.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"marketplace/client/internal/api"
	"marketplace/client/internal/config"
	"marketplace/client/internal/jobs"
	"marketplace/client/internal/media"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/navigation"
	"marketplace/client/internal/product"
	"marketplace/client/internal/session"
	"marketplace/client/internal/storage"
)

type App struct {
	Config    *config.AppConfig
	Log       zerolog.Logger
	Client    *api.Client
	Validator *validator.Validator
	Session   *session.Store
	Products  *product.Store
	Media     *media.Store
	Router    *navigation.Router
	Jobs      *jobs.Scheduler
	Metrics   *prometheus.Registry

	unbind []func()
}

// Option adjusts construction, mostly so tests can swap backends.
type Option func(*options)

type options struct {
	storage storage.Store
	api     []api.Option
}

func WithStorage(s storage.Store) Option {
	return func(o *options) { o.storage = s }
}

func WithAPIOptions(opts ...api.Option) Option {
	return func(o *options) { o.api = append(o.api, opts...) }
}

func New(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store := o.storage
	if store == nil {
		var err error
		store, err = storage.New(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	apiOpts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(log.With().Str("component", "api").Logger()),
		api.WithMetrics(registry),
	}
	client, err := api.NewClient(cfg.API.BaseURL, append(apiOpts, o.api...)...)
	if err != nil {
		return nil, err
	}

	v := validator.New(validator.Rules{
		MaxBytes:       cfg.Upload.MaxBytes,
		AllowedTypes:   cfg.Upload.AllowedTypes,
		CheckExtension: true,
		SniffContent:   true,
	})

	sess := session.New(ctx, client, store,
		session.WithLogger(log.With().Str("component", "session").Logger()),
		session.WithValidator(v),
	)
	client.SetTokenSource(sess)

	a := &App{
		Config:    cfg,
		Log:       log,
		Client:    client,
		Validator: v,
		Session:   sess,
		Products:  product.New(client, log.With().Str("component", "products").Logger()),
		Media:     media.New(client, v, log.With().Str("component", "media").Logger()),
		Router:    navigation.NewRouter(log.With().Str("component", "router").Logger()),
		Metrics:   registry,
	}
	a.Jobs = jobs.NewScheduler(cfg.Jobs, a.Products, a.Session, log.With().Str("component", "jobs").Logger())

	a.unbind = append(a.unbind,
		sess.OnLoggedOut(a.Media.Reset),
		a.Router.Bind(sess),
	)
	return a, nil
}

// Close detaches the logout handlers and stops the scheduler.
func (a *App) Close() {
	for _, fn := range a.unbind {
		fn()
	}
	a.unbind = nil
	a.Jobs.Stop()
}

var (
	once        sync.Once
	instance    *App
	instanceErr error
)

// Instance builds the process-wide App on first use. Later calls return the
// same App and ignore their arguments.
func Instance(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) (*App, error) {
	once.Do(func() {
		instance, instanceErr = New(ctx, cfg, log, opts...)
	})
	return instance, instanceErr
}
