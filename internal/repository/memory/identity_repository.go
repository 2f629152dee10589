package memory

import (
	"context"
	"sync"

	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/repository"
)

// IdentitySlot is an in-process slot. FailWith makes every call fail, which
// lets tests exercise durable-write failures.
type IdentitySlot struct {
	mu    sync.Mutex
	value *models.Identity
	err   error
}

var _ repository.IdentitySlot = (*IdentitySlot)(nil)

func NewIdentitySlot() *IdentitySlot {
	return &IdentitySlot{}
}

func (s *IdentitySlot) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *IdentitySlot) Load(_ context.Context) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.value == nil {
		return nil, nil
	}
	v := *s.value
	return &v, nil
}

func (s *IdentitySlot) Save(_ context.Context, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.value = &identity
	return nil
}

func (s *IdentitySlot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.value = nil
	return nil
}
