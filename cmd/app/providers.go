package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	"github.com/yanqian/celestial-scale/internal/domain/weighin"
	"github.com/yanqian/celestial-scale/internal/infra/bodyrepo"
	"github.com/yanqian/celestial-scale/internal/infra/config"
	"github.com/yanqian/celestial-scale/internal/infra/imagestore"
	"github.com/yanqian/celestial-scale/internal/infra/sessionstore"
	httpiface "github.com/yanqian/celestial-scale/internal/interface/http"
)

func provideWeighinConfig(cfg *config.Config) weighin.Config {
	return weighin.Config{SessionTTL: cfg.Session.TTL}
}

// provideCatalog loads the metrics table once at startup. A broken external
// source falls back to the built-in bodies; an invalid table is fatal.
func provideCatalog(cfg *config.Config, logger *slog.Logger) (*bodies.Catalog, error) {
	source, closeSource := provideBodySource(cfg, logger)
	defer closeSource()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, err := source.LoadBodies(ctx)
	if err != nil {
		logger.Error("failed to load catalog, using built-in bodies", "error", err)
		return bodies.DefaultCatalog(), nil
	}
	catalog, err := bodies.NewCatalog(records)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	logger.Info("catalog loaded", "bodies", catalog.Len())
	return catalog, nil
}

func provideBodySource(cfg *config.Config, logger *slog.Logger) (bodies.Source, func()) {
	fallback := bodyrepo.NewMemoryRepository()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN)
	if dsn == "" {
		logger.Info("catalog postgres dsn not set, using built-in bodies")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using built-in bodies", "error", err)
		return fallback, noop
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using built-in bodies", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using built-in bodies", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("catalog postgres repository enabled")
	repo := bodyrepo.NewPostgresRepository(pool)
	return repo, repo.Close
}

func provideSessionManager(cfg *config.Config, logger *slog.Logger) *httpiface.SessionManager {
	if cfg.Session.UsesDefaultSecret() {
		logger.Warn("session cookies are signed with the public default secret; set SESSION_SECRET before exposing this server")
	}
	return httpiface.NewSessionManager(cfg)
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) weighin.SessionStore {
	if cfg.Session.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("session valkey store enabled", "addr", cfg.Session.Redis.Addr)
			return sessionstore.NewValkeyStore(client, cfg.Session.Redis.Prefix)
		}
	}
	return sessionstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideImageStore(cfg *config.Config, logger *slog.Logger) (bodies.ImageStore, error) {
	r2 := cfg.Images.R2
	if r2.Enabled {
		store, err := imagestore.NewR2Store(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("r2 image store enabled", "bucket", r2.Bucket)
		return store, nil
	}
	return imagestore.NewMemoryStore()
}
