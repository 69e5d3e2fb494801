package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/database"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/testhelpers"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		Env:        config.Test,
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := database.New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, database.HealthCheck(context.Background(), db))

	require.NoError(t, database.RunMigrations(db, "", zap.NewNop()))
	for _, m := range database.Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	user := models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)
}

func TestMigrationsDirHasRollbacks(t *testing.T) {
	dir := testhelpers.MigrationsDir()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		rollback := strings.TrimSuffix(name, ".sql") + "_rollback.sql"
		_, err := os.Stat(filepath.Join(dir, rollback))
		assert.NoError(t, err, "missing rollback for %s", name)
	}
}

func TestSQLMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	ctx := context.Background()
	dir := testhelpers.MigrationsDir()

	applied, err := database.ApplySQLMigrations(ctx, sqlDB, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, applied, "migrations already ran during setup")

	name, err := database.RollbackLast(ctx, sqlDB, dir)
	require.NoError(t, err)
	assert.Equal(t, "001_init.sql", name)
	assert.False(t, db.Migrator().HasTable(&models.Menu{}))

	_, err = database.RollbackLast(ctx, sqlDB, dir)
	assert.ErrorIs(t, err, database.ErrNothingToRollback)

	applied, err = database.ApplySQLMigrations(ctx, sqlDB, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql"}, applied)
	assert.True(t, db.Migrator().HasTable(&models.Menu{}))
}
