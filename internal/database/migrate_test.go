package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anup-shanbhag/TrelloQuora/internal/config"
)

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	original := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = original })
}

func TestMigrateRunsEmbeddedDir(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	var gotDB *sql.DB
	stubGoose(t, func(_ context.Context, d *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDB = d
		gotDir = dir
		return nil
	})

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)
	assert.Same(t, db, gotDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWrapsFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("relation already exists")
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom })

	err = Migrate(context.Background(), db)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "goose up")
}

func TestEmbeddedMigrationsCreateSchema(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	schema := string(raw)
	for _, table := range []string{"users", "user_auth", "question", "answer"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "-- +goose Up")
	assert.Contains(t, schema, "ON DELETE CASCADE")
}

func TestNewPostgresPoolRequiresDSN(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), config.PostgresConfig{})
	assert.Error(t, err)
}
