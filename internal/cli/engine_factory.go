package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/internal/config"
	"github.com/aretw0/posematch/pkg/adapters/file"
	"github.com/aretw0/posematch/pkg/adapters/redis"
	"github.com/aretw0/posematch/pkg/ports"
)

// OpenStore builds the document store selected by cfg.Store.
// The returned close function releases backend connections.
func OpenStore(cfg config.Config) (ports.Store, func() error, error) {
	switch cfg.Store {
	case "", "file":
		return file.New(cfg.Resources), func() error { return nil }, nil
	case "redis":
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (supported: file, redis)", cfg.Store)
	}
}

// CreateEngine initializes an engine with standard CLI conventions:
// the configured store for both reading and writing, the configured epsilon
// and the given logger. Extra options are applied last.
func CreateEngine(cfg config.Config, logger *slog.Logger, extra ...posematch.Option) (*posematch.Engine, func() error, error) {
	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []posematch.Option{
		posematch.WithLoader(store),
		posematch.WithWriter(store),
		posematch.WithLogger(logger),
	}
	if cfg.Epsilon != nil {
		opts = append(opts, posematch.WithEpsilon(float32(*cfg.Epsilon)))
	}
	opts = append(opts, extra...)

	engine, err := posematch.New(cfg.Resources, opts...)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closeStore, nil
}
