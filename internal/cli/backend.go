package cli

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vytor/mathcat/internal/config"
	"github.com/vytor/mathcat/internal/db"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/repository"
	"github.com/vytor/mathcat/internal/repository/memory"
	"github.com/vytor/mathcat/internal/repository/redis"
	"github.com/vytor/mathcat/internal/repository/sqlite"
)

// identityBackend is an opened identity slot plus how to probe and close it.
type identityBackend struct {
	slot  repository.IdentitySlot
	ready func(ctx context.Context) error
	close func() error
}

func openIdentityBackend(cfg config.Config) (*identityBackend, error) {
	log := logger.Default().WithPrefix("cli").WithField("backend", cfg.IdentityBackend)

	switch cfg.IdentityBackend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &identityBackend{
			slot:  sqlite.NewIdentitySlot(database.DB),
			ready: database.PingContext,
			close: database.Close,
		}, nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info("using redis identity slot: addr=%s key=%s", cfg.RedisAddr, cfg.RedisKey)
		return &identityBackend{
			slot:  redis.NewIdentitySlot(client, cfg.RedisKey),
			ready: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: client.Close,
		}, nil

	case config.BackendMemory:
		log.Warn("identity will not survive a restart")
		return &identityBackend{
			slot:  memory.NewIdentitySlot(),
			ready: func(context.Context) error { return nil },
			close: func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown identity backend %q", cfg.IdentityBackend)
}
