package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/adapter/interpreter"
	"github.com/rl1809/stock-assistant/internal/adapter/storage"
	"github.com/rl1809/stock-assistant/internal/config"
	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/core/parser"
	"github.com/rl1809/stock-assistant/internal/core/service"
	"github.com/rl1809/stock-assistant/internal/port"
)

// app owns everything one process wires together.
type app struct {
	service *service.InventoryService
	workers *sync.WaitGroup
	closers []func() error
	logger  *zap.Logger
}

// newApp builds the inventory service. When external is false Redis and MySQL
// are skipped even if configured.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, external bool) (*app, error) {
	a := &app{logger: logger}

	catalog := domain.DefaultCatalog()
	initial, err := cfg.Inventory.InitialCounts(catalog)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewMemoryStore(catalog, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to seed inventory: %w", err)
	}

	chain, err := newParser(ctx, cfg.Interpreter, catalog, logger)
	if err != nil {
		return nil, err
	}

	var (
		guard   port.CacheRepository = storage.NewMemoryIdempotency(cfg.Redis.IdempotencyTTL)
		mirror  port.CountsMirror
		journal port.JournalRepository = storage.NewLogJournal(logger)
	)

	if external && cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: 20,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		redisAdapter := storage.NewRedisAdapter(rdb, cfg.Redis.IdempotencyTTL)
		guard, mirror = redisAdapter, redisAdapter
		logger.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	if external && cfg.Journal.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.Journal.MySQLDSN)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		a.closers = append(a.closers, db.Close)

		if err := db.PingContext(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to ping mysql: %w", err)
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		journal = mysqlAdapter
		logger.Info("Connected to mysql")
	}

	a.service = service.NewInventoryService(chain, store, catalog, guard, cfg.Journal.QueueSize, logger)
	a.workers = service.StartJournalWorkers(cfg.Journal.Workers, a.service.JournalQueue(), journal, mirror, logger)
	return a, nil
}

func newParser(ctx context.Context, cfg config.InterpreterConfig, catalog *domain.Catalog, logger *zap.Logger) (*parser.Chain, error) {
	stages := []parser.Stage{parser.NewTemplateStage(catalog)}

	var interp port.Interpreter
	switch cfg.Provider {
	case config.ProviderOpenAI:
		c, err := interpreter.NewOpenAIInterpreter(interpreter.OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}
		interp = c
	case config.ProviderGemini:
		c, err := interpreter.NewGeminiInterpreter(ctx, interpreter.GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		interp = c
	}

	if interp != nil {
		capability := interpreter.DefaultCapability(catalog)
		if cfg.CapabilityPath != "" {
			loaded, err := interpreter.LoadCapability(cfg.CapabilityPath, catalog)
			if err != nil {
				return nil, err
			}
			capability = loaded
		}
		stages = append(stages, parser.NewInterpreterStage(interp, catalog, capability, cfg.Timeout, logger))
		logger.Info("Interpreter enabled", zap.String("provider", cfg.Provider))
	}

	return parser.NewChain(logger, stages...), nil
}

// shutdown closes the journal queue, waits for workers to drain it, then
// closes connections.
func (a *app) shutdown() {
	if a.service != nil {
		a.service.Close()
		a.workers.Wait()
		a.logger.Info("Journal workers stopped")
	}
	a.close()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to close connection", zap.Error(err))
		}
	}
	a.closers = nil
}
