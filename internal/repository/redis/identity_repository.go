package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/repository"
)

const DefaultKey = "mathcat:identity"

// IdentitySlot keeps the identity as one JSON value under a single key, so
// every write replaces it whole.
type IdentitySlot struct {
	client *goredis.Client
	key    string
}

var _ repository.IdentitySlot = (*IdentitySlot)(nil)

func NewIdentitySlot(client *goredis.Client, key string) *IdentitySlot {
	if key == "" {
		key = DefaultKey
	}
	return &IdentitySlot{client: client, key: key}
}

func (s *IdentitySlot) Load(ctx context.Context) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("identity_redis")

	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		log.Debug("identity key %s is empty", s.key)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to read identity: %v", err)
		return nil, err
	}

	var id models.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		log.Warn("identity key %s holds unreadable data: %v", s.key, err)
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptSlot, err)
	}
	return &id, nil
}

func (s *IdentitySlot) Save(ctx context.Context, id models.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("identity_redis").Error("failed to save identity: %v", err)
		return err
	}
	return nil
}

func (s *IdentitySlot) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
