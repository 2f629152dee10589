package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathcat/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := "file:" + filepath.Join(t.TempDir(), "mathcat.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 1, count)

	_, err = second.ExecContext(context.Background(),
		`INSERT INTO identity_slot (slot, user_id, name, alt_name, class_label) VALUES ('current', 1, 'a', 'b', 'c')`)
	assert.NoError(t, err)
}
