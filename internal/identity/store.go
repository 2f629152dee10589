// Package identity keeps the logged-in learner in memory and in a durable slot,
// writing both together so they never disagree.
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/repository"
)

// Store is the persistent identity store. Every mutation writes the durable
// slot first and only then swaps the in-memory copy; a failed durable write
// leaves memory untouched.
type Store struct {
	writeMu sync.Mutex // serializes mutations end to end
	mu      sync.RWMutex
	slot    repository.IdentitySlot
	current *models.Identity
	log     *logger.Logger
}

func NewStore(slot repository.IdentitySlot) *Store {
	return &Store{
		slot: slot,
		log:  logger.Default().WithPrefix("identity"),
	}
}

// Load seeds memory from the durable slot. It is meant to run once at start.
// An unreadable slot is treated as empty.
func (s *Store) Load(ctx context.Context) (*models.Identity, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id, err := s.slot.Load(ctx)
	if errors.Is(err, repository.ErrCorruptSlot) {
		s.log.Warn("ignoring unreadable stored identity: %v", err)
		id, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()

	if id != nil {
		s.log.Info("restored identity: user_id=%d", id.UserID)
	}
	return copyOf(id), nil
}

// Current returns a copy of the in-memory identity, or nil.
func (s *Store) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOf(s.current)
}

// Set replaces the identity, typically right after login.
func (s *Store) Set(ctx context.Context, id models.Identity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(ctx, id)
}

// ReplaceScore mirrors a server-confirmed score into the identity by writing a
// whole new value. It is a no-op when nobody is logged in.
func (s *Store) ReplaceScore(ctx context.Context, score int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	cur := copyOf(s.current)
	s.mu.RUnlock()
	if cur == nil {
		return nil
	}
	if cur.TotalScore == score {
		return nil
	}
	return s.replaceLocked(ctx, cur.WithScore(score))
}

// Clear erases the durable slot and then the in-memory identity.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		s.log.Error("failed to clear identity slot: %v", err)
		return err
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.log.Info("identity cleared")
	return nil
}

func (s *Store) replaceLocked(ctx context.Context, id models.Identity) error {
	if err := s.slot.Save(ctx, id); err != nil {
		s.log.Error("failed to persist identity: user_id=%d: %v", id.UserID, err)
		return err
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return nil
}

func copyOf(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
