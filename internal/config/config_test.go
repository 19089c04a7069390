package config

import (
	"testing"

	"facilitydash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "DATA_SOURCE", "DATA_FILE", "DATA_TABLE", "DATABASE_DRIVER",
		"DATABASE_URL", "DEFAULT_VARIANT", "TABLE_ROW_LIMIT", "OPS_PORT", "OPS_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, DefaultDataFile, cfg.Data.File)
	assert.Equal(t, "infections", cfg.Dashboard.DefaultVariant)
	assert.Equal(t, 500, cfg.Dashboard.TableRowLimit)
	assert.False(t, cfg.Ops.Enabled)
	assert.Equal(t, "6060", cfg.Ops.Port)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_VARIANT", "facility")
	t.Setenv("TABLE_ROW_LIMIT", "25")
	t.Setenv("OPS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "facility", cfg.Dashboard.DefaultVariant)
	assert.Equal(t, 25, cfg.Dashboard.TableRowLimit)
	assert.True(t, cfg.Ops.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown source", map[string]string{"DATA_SOURCE": "s3"}},
		{"sql without url", map[string]string{"DATA_SOURCE": "sql"}},
		{"unknown variant", map[string]string{"DEFAULT_VARIANT": "hospital"}},
		{"non-positive limit", map[string]string{"TABLE_ROW_LIMIT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_SQLSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_SOURCE", "sql")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file::memory:")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceSQL, cfg.Data.Source)
	assert.Equal(t, "facilities", cfg.Data.Table)
}
