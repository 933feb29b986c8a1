package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lostfound-service", cfg.App.Name)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/lf.db")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("UPLOAD_MAX_BYTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/lf.db", cfg.SQLite.Path)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 10<<20, cfg.Upload.MaxBytes, "unparsable ints fall back")
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  name: campus-lostfound
  port: "7000"
database:
  driver: sqlite
storage:
  local_dir: /var/lib/lostfound/uploads
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7100")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "campus-lostfound", cfg.App.Name)
	assert.Equal(t, "7100", cfg.App.Port, "env wins over file")
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/var/lib/lostfound/uploads", cfg.Storage.LocalDir)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := Default()
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.Validate())
	})

	t.Run("default secret in production", func(t *testing.T) {
		cfg := Default()
		cfg.App.Env = "production"
		assert.Error(t, cfg.Validate())

		cfg.Auth.JWTSecret = "a-real-secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("supabase without credentials", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Driver = StorageSupabase
		assert.Error(t, cfg.Validate())

		cfg.Storage.SupabaseURL = "https://project.supabase.co"
		cfg.Storage.SupabaseKey = "service-key"
		assert.NoError(t, cfg.Validate())
	})
}
