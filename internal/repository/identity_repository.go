package repository

import (
	"context"
	"errors"

	"github.com/vytor/mathcat/internal/models"
)

// ErrCorruptSlot is returned when the stored identity cannot be decoded.
var ErrCorruptSlot = errors.New("stored identity is unreadable")

// IdentitySlot is the single durable slot holding the logged-in identity.
// Save always replaces the whole value.
type IdentitySlot interface {
	// Load returns nil, nil when the slot is empty.
	Load(ctx context.Context) (*models.Identity, error)
	Save(ctx context.Context, identity models.Identity) error
	Clear(ctx context.Context) error
}
