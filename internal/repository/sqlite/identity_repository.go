package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/mathcat/internal/logger"
	"github.com/vytor/mathcat/internal/models"
	"github.com/vytor/mathcat/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const (
	identityTable = "identity_slot"
	currentSlot   = "current"
)

type identitySlot struct {
	db *sql.DB
}

// NewIdentitySlot creates an IdentitySlot backed by a single sqlite row.
func NewIdentitySlot(db *sql.DB) repository.IdentitySlot {
	return &identitySlot{db: db}
}

func (r *identitySlot) Load(ctx context.Context) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")

	query, args, err := sqlBuilder.
		Select("user_id", "name", "alt_name", "class_label", "total_score").
		From(identityTable).
		Where(squirrel.Eq{"slot": currentSlot}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var id models.Identity
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&id.UserID, &id.Name, &id.AltName, &id.ClassLabel, &id.TotalScore)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("identity slot is empty")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load identity: %v", err)
		return nil, err
	}
	log.Debug("identity loaded: user_id=%d, total_score=%d", id.UserID, id.TotalScore)
	return &id, nil
}

func (r *identitySlot) Save(ctx context.Context, id models.Identity) error {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")
	log.Debug("saving identity: user_id=%d, total_score=%d", id.UserID, id.TotalScore)

	query, args, err := sqlBuilder.
		Replace(identityTable).
		Columns("slot", "user_id", "name", "alt_name", "class_label", "total_score", "updated_at").
		Values(currentSlot, id.UserID, id.Name, id.AltName, id.ClassLabel, id.TotalScore, squirrel.Expr("CURRENT_TIMESTAMP")).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save identity: %v", err)
		return err
	}
	return nil
}

func (r *identitySlot) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("identity_repo")
	log.Debug("clearing identity slot")

	query, args, err := sqlBuilder.
		Delete(identityTable).
		Where(squirrel.Eq{"slot": currentSlot}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to clear identity slot: %v", err)
		return err
	}
	return nil
}
