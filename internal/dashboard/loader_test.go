package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"facilitydash/adapters/source"
	"facilitydash/internal/config"
	"facilitydash/internal/dataset"
	"facilitydash/internal/errors"
	"facilitydash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(path string) *config.Config {
	return &config.Config{Data: config.DataConfig{Source: config.SourceFile, File: path}}
}

func TestLoader_CachesPerVariantOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hai.csv")
	require.NoError(t, testkit.WriteCSV(path, testkit.ScenarioRows(), true))

	cache := dataset.NewCache()
	loader := NewLoader(fileConfig(path), nil, cache)
	ctx := context.Background()

	first, err := loader.Load(ctx, Infections)
	require.NoError(t, err)
	again, err := loader.Load(ctx, Infections)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 3, first.Len())

	_, err = loader.Load(ctx, Facility)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.Cache().Len())
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(fileConfig(filepath.Join(t.TempDir(), "absent.csv")), nil, nil)

	ds, err := loader.Load(context.Background(), Infections)
	assert.Nil(t, ds)
	assert.True(t, errors.IsLoadError(err))
}

func TestLoader_SQLWithoutConnection(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Source: config.SourceSQL, Table: "facilities"}}
	loader := NewLoader(cfg, nil, nil)

	_, err := loader.Load(context.Background(), Facility)
	assert.True(t, errors.IsLoadError(err))
}

func TestLoader_SQLCancelledFirstRequestDoesNotStick(t *testing.T) {
	ctx := context.Background()
	db, err := source.OpenDatabase(ctx, "sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.MustExec(`CREATE TABLE facilities ("Facility Name" TEXT, "State" TEXT, "Score" REAL)`)
	db.MustExec(`INSERT INTO facilities VALUES ('Alpha Hospital', 'TX', 5)`)

	cfg := &config.Config{Data: config.DataConfig{Source: config.SourceSQL, Table: "facilities"}}
	loader := NewLoader(cfg, db, nil)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	first, err := loader.Load(cancelled, Facility)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Len())

	second, err := loader.Load(ctx, Facility)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
