// Package wiring builds a service.Service from configuration: it picks the
// registry backend, constructs the map providers in configured order and
// puts the memo store in front of every remote collaborator.
package wiring

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"

	"github.com/safetable/safetable/internal/dataset"
	"github.com/safetable/safetable/internal/provider/foodsafety"
	"github.com/safetable/safetable/internal/provider/googleplaces"
	"github.com/safetable/safetable/internal/provider/kakao"
	"github.com/safetable/safetable/internal/registrydb"
	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/config"
	"github.com/safetable/safetable/pkg/memo"
	"github.com/safetable/safetable/pkg/scoring"
	"github.com/safetable/safetable/pkg/source"
)

// DefaultDatasetFile is read from config.DatasetDir when no dataset URI is set.
const DefaultDatasetFile = "registry.json"

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App is a built service plus the resources it holds.
type App struct {
	Service *service.Service
	// Health is the registry backend when it supports health checks.
	Health Pinger
	closers []func() error
}

// Close releases held resources.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type backend struct {
	registry   source.Registry
	violations source.Violations
	remote     bool // results are worth memoizing
	health     Pinger
	close      func() error
}

// Build constructs the App described by cfg and env.
func Build(ctx context.Context, cfg *config.Config, env *config.Env, log zerolog.Logger) (*App, error) {
	profile, err := scoring.ProfileByName(cfg.Scoring.Profile)
	if err != nil {
		return nil, err
	}
	b, err := newBackend(ctx, cfg.Registry.Backend, env, log)
	if err != nil {
		return nil, err
	}
	app := &App{Health: b.health}
	if b.close != nil {
		app.closers = append(app.closers, b.close)
	}

	providers, err := Providers(cfg, env, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	store := memo.New(cfg.Cache.Capacity)
	ttl := cfg.TTLs()
	registry, violations := b.registry, b.violations
	if b.remote {
		registry = source.NewCachedRegistry(registry, store, ttl.Registry)
		violations = source.NewCachedViolations(violations, store, ttl.Violations)
	}
	cached := make([]source.RatingProvider, len(providers))
	for i, p := range providers {
		cached[i] = source.NewCachedProvider(p, store, ttl)
	}

	app.Service = service.New(service.Deps{
		Registry:    registry,
		Violations:  violations,
		Providers:   cached,
		Engine:      scoring.NewEngine(profile),
		Brands:      cfg.BrandTable(),
		Logger:      log,
		PoolSize:    cfg.Recommend.PoolSize,
		Concurrency: cfg.Recommend.Concurrency,
	})
	log.Info().
		Str("backend", cfg.Registry.Backend).
		Strs("providers", providerNames(providers)).
		Str("profile", profile.Name).
		Msg("service ready")
	return app, nil
}

func newBackend(ctx context.Context, name string, env *config.Env, log zerolog.Logger) (*backend, error) {
	switch name {
	case config.BackendAPI, "":
		if env.FoodSafetyKey == "" {
			return nil, fmt.Errorf("%s_FOODSAFETY_KEY is required when registry backend is %q", config.EnvPrefix, config.BackendAPI)
		}
		c := foodsafety.New(env.FoodSafetyURL, env.FoodSafetyKey, env.HTTPTimeout, log)
		return &backend{registry: c, violations: c, remote: true}, nil

	case config.BackendPostgres:
		db, err := OpenDB(ctx, env)
		if err != nil {
			return nil, err
		}
		s := registrydb.New(db, log)
		return &backend{registry: s, violations: s, remote: true, health: s, close: db.Close}, nil

	case config.BackendDataset:
		ds, err := LoadDataset(ctx, env, DatasetURI(env))
		if err != nil {
			return nil, err
		}
		ix := dataset.NewIndex(ds)
		log.Info().Int("records", ix.Len()).Int("violations", len(ds.Violations)).Msg("dataset loaded")
		return &backend{registry: ix, violations: ix}, nil
	}
	return nil, fmt.Errorf("unknown registry backend %q", name)
}

// Providers builds the configured map providers in lookup order. Providers
// without credentials are skipped.
func Providers(cfg *config.Config, env *config.Env, log zerolog.Logger) ([]source.RatingProvider, error) {
	var out []source.RatingProvider
	for _, name := range cfg.Providers {
		switch name {
		case config.ProviderKakao:
			if env.KakaoKey == "" {
				log.Warn().Str("provider", name).Msg("no API key, provider disabled")
				continue
			}
			out = append(out, kakao.New(env.KakaoURL, env.KakaoKey, env.HTTPTimeout, cfg.Recommend.AreaTooMany, log))
		case config.ProviderGoogle:
			if env.GoogleKey == "" {
				log.Warn().Str("provider", name).Msg("no API key, provider disabled")
				continue
			}
			out = append(out, googleplaces.New(env.GoogleURL, env.GoogleKey, env.HTTPTimeout, log))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	return out, nil
}

func providerNames(ps []source.RatingProvider) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return names
}

// OpenDB opens and pings the Postgres registry mirror.
func OpenDB(ctx context.Context, env *config.Env) (*sql.DB, error) {
	if env.PostgresDSN == "" {
		return nil, fmt.Errorf("%s_POSTGRES_DSN is required for the postgres backend", config.EnvPrefix)
	}
	db, err := sql.Open("postgres", env.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// DatasetURI returns the configured dataset location, defaulting to the
// local dataset directory.
func DatasetURI(env *config.Env) string {
	if env.DatasetURI != "" {
		return env.DatasetURI
	}
	return filepath.Join(config.DatasetDir(), DefaultDatasetFile)
}

// LoadDataset reads the dataset at uri from local disk, S3 or GCS.
func LoadDataset(ctx context.Context, env *config.Env, uri string) (*dataset.Dataset, error) {
	loc, err := dataset.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	st, err := dataset.OpenStorage(ctx, loc, dataset.S3Config{
		Region:    env.S3Region,
		Endpoint:  env.S3Endpoint,
		AccessKey: env.S3AccessKey,
		SecretKey: env.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return dataset.Load(ctx, st, loc.Key)
}
