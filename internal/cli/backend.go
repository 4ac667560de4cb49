package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"todo/internal/backend"
	"todo/internal/backend/file"
	"todo/internal/backend/googletasks"
	"todo/internal/backend/memory"
	"todo/internal/backend/redisstore"
	"todo/internal/backend/sqlite"
	"todo/internal/config"
	"todo/internal/service"
)

// ErrAuth marks failures caused by missing or unusable credentials.
var ErrAuth = errors.New("auth error")

// OpenBackend creates the storage backend selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return file.New(cfg.File, log), nil
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath, log)
	case config.BackendRedis:
		return redisstore.Open(ctx, cfg.RedisURL, cfg.RedisKey, log)
	case config.BackendGoogleTasks:
		// Check for required auth files and report user-friendly errors
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrAuth, config.OAuthClientFile, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: todo login)", ErrAuth)
		}
		c, err := googletasks.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// BackendOpener opens the storage backend for a session.
type BackendOpener func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (backend.Backend, error)

// NewServiceFactory returns a factory that opens a backend with open and
// loads the task list from it. When the load fails for any reason other
// than missing storage, the session continues over an empty list but
// changes are refused with ErrStorageUnreadable, so the unreadable data is
// never replaced.
func NewServiceFactory(open BackendOpener) ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (service.Service, error) {
		b, err := open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}

		store := newGuardedStore(service.NewStore(b, service.WithLogger(log)))
		if err := store.Load(ctx); err != nil {
			log.WithField("backend", cfg.Backend).Warn("changes are disabled until the stored tasks can be read")
		}
		return store, nil
	}
}

// DefaultServiceFactory opens the backend named in the config.
var DefaultServiceFactory = NewServiceFactory(OpenBackend)
