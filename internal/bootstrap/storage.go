package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloodconnect/bloodconnect-web/config"
	"github.com/bloodconnect/bloodconnect-web/internal/adapters/memory"
	"github.com/bloodconnect/bloodconnect-web/internal/adapters/postgres"
	redisstore "github.com/bloodconnect/bloodconnect-web/internal/adapters/redis"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

// SessionBackendDeps carries the connectors used to build session storage.
// Tests replace them to avoid dialing real servers.
type SessionBackendDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger

	ConnectDB    func(DatabaseConfig) (*sql.DB, error)
	ConnectRedis func(DatabaseConfig) (redis.UniversalClient, error)
}

// SessionBackend is the durable session storage plus its connections.
type SessionBackend struct {
	Storage ports.SessionStorage
	// Purger is nil for backends that expire entries on their own.
	Purger ports.SessionPurger
	DB     *sql.DB
	Redis  redis.UniversalClient
}

// Close releases the backend connections.
func (b *SessionBackend) Close() error {
	if b == nil {
		return nil
	}
	var errs []error
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if b.DB != nil {
		if err := b.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// BuildSessionBackend connects the configured session backend.
func BuildSessionBackend(ctx context.Context, deps SessionBackendDeps) (*SessionBackend, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.ConnectDB == nil {
		deps.ConnectDB = ConnectDB
	}
	if deps.ConnectRedis == nil {
		deps.ConnectRedis = ConnectRedis
	}

	dbCfg := DatabaseConfig{
		DBConfig:    deps.Config.Postgres,
		RedisConfig: deps.Config.Redis,
		Logger:      deps.Logger,
	}

	switch deps.Config.Session.Backend {
	case config.SessionBackendMemory:
		deps.Logger.Warn("using in-memory session storage; sessions do not survive restarts")
		storage := memory.NewSessionStorage(nil)
		return &SessionBackend{Storage: storage, Purger: storage}, nil

	case config.SessionBackendPostgres:
		db, err := deps.ConnectDB(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect session database: %w", err)
		}
		storage, err := postgres.NewSessionStorage(postgres.Options{DB: db})
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		if deps.Config.Postgres.RunMigrationsOnStart {
			schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := storage.EnsureSchema(schemaCtx); err != nil {
				return nil, errors.Join(err, db.Close())
			}
			deps.Logger.Info("session schema ready")
		}
		return &SessionBackend{Storage: storage, Purger: storage, DB: db}, nil

	case config.SessionBackendRedis, "":
		client, err := deps.ConnectRedis(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect session redis: %w", err)
		}
		storage := redisstore.NewSessionStorageWithPrefix(client, deps.Config.Session.KeyPrefix)
		return &SessionBackend{Storage: storage, Redis: client}, nil

	default:
		return nil, fmt.Errorf("unsupported session backend %q", deps.Config.Session.Backend)
	}
}
