package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/dependencies/clock"
	"github.com/mcoot/backlogbingo/internal/dependencies/ids"
	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/profile"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/services/sample"
	"github.com/mcoot/backlogbingo/internal/services/selector"
	"github.com/mcoot/backlogbingo/internal/services/source"
	"github.com/mcoot/backlogbingo/internal/storage"
	boltstorage "github.com/mcoot/backlogbingo/internal/storage/bolt"
	"github.com/mcoot/backlogbingo/internal/storage/memory"
	redisstorage "github.com/mcoot/backlogbingo/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeBolt   = "bolt"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Provider
	IDs    ids.Generator

	// Metrics is nil when metrics are disabled
	Metrics *metrics.Metrics

	// Services
	Generator      *card.Generator
	ProfileService *profile.Service
	RulesService   *rules.Service
	SourceService  *source.Service
	CardService    *card.Service
	SampleAnalyzer *sample.Analyzer

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "bolt")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BoltConfig holds the database file settings (optional for "bolt")
	BoltConfig *boltstorage.Config
	// FetchConfig holds card source download settings
	// If zero value, defaults to source.DefaultFetchConfig()
	FetchConfig source.FetchConfig
	// EnableMetrics registers prometheus collectors
	EnableMetrics bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	fetchCfg := cfg.FetchConfig
	if fetchCfg.Timeout == 0 {
		fetchCfg = source.DefaultFetchConfig()
	}

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
	}

	return newWithDependencies(store, clock.New(), random.New(), ids.New(), m, fetchCfg, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeBolt:
		boltCfg := boltstorage.DefaultConfig()
		if cfg.BoltConfig != nil {
			boltCfg = *cfg.BoltConfig
		}
		return boltstorage.New(boltCfg)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'bolt'", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Provider,
	idGen ids.Generator,
	m *metrics.Metrics,
	fetchCfg source.FetchConfig,
	logger *slog.Logger,
) *App {
	generator := card.NewGenerator(selector.New(logger), logger)
	rulesService := rules.New(store, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		IDs:            idGen,
		Metrics:        m,
		Generator:      generator,
		ProfileService: profile.New(store, clk, idGen, logger),
		RulesService:   rulesService,
		SourceService:  source.New(store, rulesService, source.NewFetcher(fetchCfg, logger), m, logger),
		CardService:    card.New(store, rulesService, generator, rnd, clk, idGen, m, logger),
		SampleAnalyzer: sample.New(generator, rnd, logger),
		logger:         logger,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
