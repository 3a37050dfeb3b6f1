package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "herbadmin.db", cfg.DBPath)
	assert.Equal(t, "storage", cfg.Storage.Dir)
	assert.Empty(t, cfg.Storage.BaseURL)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, 24, cfg.Auth.TokenTTL)
}

func TestLoadReadsFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herbadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /var/lib/herb/db.sqlite
storage:
  dir: /var/lib/herb/objects
  base_url: https://cdn.example.com/herb
auth:
  enabled: true
  secret: s3cret
  token_ttl_hours: 2
  users:
    admin@example.com: "$2a$10$abcdefghijklmnopqrstuv"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/herb/db.sqlite", cfg.DBPath)
	assert.Equal(t, "/var/lib/herb/objects", cfg.Storage.Dir)
	assert.Equal(t, "https://cdn.example.com/herb", cfg.Storage.BaseURL)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, 2, cfg.Auth.TokenTTL)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.Auth.Users["admin@example.com"])
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herbadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "herbadmin.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	// The generated file round-trips through Load with stock defaults
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "herbadmin.db", cfg.DBPath)
	assert.False(t, cfg.Auth.Enabled)

	// Never clobbers an existing file
	assert.Error(t, WriteDefaultConfig(path))
}
