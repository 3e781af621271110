package bankdb

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/monitoring"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "banks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func buildTestBank(t *testing.T) *bank.Bank {
	t.Helper()
	origLog := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = origLog })

	gp := bank.GridParam{
		MinimumMismatch: 0.03,
		FLower:          40,
		MassMin:         1,
		MassMax:         20,
		Box:             geometry.Box{T0Min: 4, T0Max: 6, T3Min: 0.6, T3Max: 1.0},
	}
	provider := metric.Constant{Ellipse: metric.Ellipse{
		A:     0.08 / math.Sqrt(0.03),
		B:     0.02 / math.Sqrt(0.03),
		Theta: math.Pi/2 - 0.1,
	}}
	b, err := bank.Build(gp, provider, nil)
	require.NoError(t, err)
	require.NotEmpty(t, b.Templates)
	return b
}

func TestOpenMigrates(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestMigrateDown(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.MigrateDown())

	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='banks'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpenDBLeavesSchemaAlone(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "banks.db"))
	require.NoError(t, err)
	defer db.Close()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='banks'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	require.NoError(t, db.MigrateUp())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestSaveAndLoadBank(t *testing.T) {
	db := setupTestDB(t)
	b := buildTestBank(t)

	id, err := db.SaveBank(b, "interior")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := db.GetBank(id)
	require.NoError(t, err)
	assert.Equal(t, "interior", rec.Label)
	assert.Equal(t, len(b.Templates), rec.TemplateCount)
	if diff := cmp.Diff(b.Params, rec.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(b.Stats, rec.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	got, err := db.LoadTemplates(id)
	require.NoError(t, err)
	if diff := cmp.Diff(b.Templates, got); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestListBanks(t *testing.T) {
	db := setupTestDB(t)

	banks, err := db.ListBanks()
	require.NoError(t, err)
	assert.Empty(t, banks)

	b := buildTestBank(t)
	first, err := db.SaveBank(b, "first")
	require.NoError(t, err)
	second, err := db.SaveBank(b, "second")
	require.NoError(t, err)

	banks, err = db.ListBanks()
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, first, banks[0].ID)
	assert.Equal(t, second, banks[1].ID)
	assert.NotEqual(t, first, second)
}

func TestDeleteBank(t *testing.T) {
	db := setupTestDB(t)
	id, err := db.SaveBank(buildTestBank(t), "")
	require.NoError(t, err)

	require.NoError(t, db.DeleteBank(id))

	_, err = db.GetBank(id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.LoadTemplates(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteBank(id), ErrNotFound)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"000001_create_banks.down.sql", "000001_create_banks.up.sql"}, names)
}
