package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvDBDSN, "")

	cfg := NewConfig()
	assert.Equal(t, ":19970", cfg.Server.HTTPPort)
	assert.True(t, cfg.Server.MCPEnabled)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.DebounceDelay)
	assert.False(t, cfg.Discovery.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvHTTPPort, ":29970")
	t.Setenv(EnvDBDriver, DriverMySQL)
	t.Setenv(EnvDBDSN, "u:p@tcp(localhost:3306)/tasks")

	cfg := NewConfig()
	assert.Equal(t, ":29970", cfg.Server.HTTPPort)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "u:p@tcp(localhost:3306)/tasks", cfg.Database.DSN)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":19970", cfg.Server.HTTPPort)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvDBDriver, "")

	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
server:
  http_port: ":18000"
  mcp_enabled: false
database:
  path: /tmp/tasks.db
watch:
  debounce_delay: 1s
discovery:
  enabled: true
  instance_name: kitchen
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":18000", cfg.Server.HTTPPort)
	assert.False(t, cfg.Server.MCPEnabled)
	assert.Equal(t, "/tmp/tasks.db", cfg.Database.DBPath())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver, "未出现在文件中的字段保留默认值")
	assert.Equal(t, time.Second, cfg.Watch.DebounceDelay)
	assert.True(t, cfg.Watch.Enabled)
	assert.True(t, cfg.Discovery.Enabled)
	assert.Equal(t, "kitchen", cfg.Discovery.InstanceName)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	t.Setenv(EnvHTTPPort, ":30000")

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: \":18000\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":30000", cfg.Server.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvDBDriver, "")
	t.Setenv(EnvDBDSN, "")
	dir := t.TempDir()

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("mysql without dsn", func(t *testing.T) {
		path := filepath.Join(dir, "mysql.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: mysql\n"), 0644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "dsn is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		path := filepath.Join(dir, "pg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: postgres\n"), 0644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestDatabaseConfig_DBPathDefault(t *testing.T) {
	ResetDataDir()
	t.Setenv(EnvDataDir, "/data/tasklive")
	defer ResetDataDir()

	d := DatabaseConfig{}
	assert.Equal(t, filepath.Join("/data/tasklive", DefaultDBFileName), d.DBPath())
}
