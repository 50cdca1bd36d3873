package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: admin\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.App.Name)
	assert.Equal(t, StoreFixture, cfg.Store.Backend)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL())
	assert.Equal(t, DefaultCacheKeyPrefix, cfg.Cache.KeyPrefix)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "submissions", cfg.Search.Index)
	assert.Equal(t, "info", cfg.Logging.Level)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("CA_TEST_DB_USER", "admin")
	path := writeConfig(t, `
store:
  backend: postgres
database:
  postgres:
    host: db
    database: classaction
    user: ${CA_TEST_DB_USER}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "host=db port=5432 user=admin password= dbname=classaction sslmode=disable", cfg.Database.Postgres.GetDSN())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown store backend",
			body:    "store:\n  backend: mongo\n",
			wantErr: "store.backend",
		},
		{
			name:    "postgres without host",
			body:    "store:\n  backend: postgres\ndatabase:\n  postgres:\n    database: x\n    user: y\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "redis cache without address",
			body:    "cache:\n  backend: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "search without addresses",
			body:    "search:\n  enabled: true\n",
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "bad timezone",
			body:    "app:\n  timezone: Mars/Olympus\n",
			wantErr: "app.timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"export-records": {Enabled: false, MaxJobsActive: 1, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "export-records"))
	assert.True(t, IsWorkerEnabled(cfg, "submission-stats"))
	assert.Equal(t, 1, GetWorkerConfig(cfg, "export-records").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown").Timeout)
	assert.Equal(t, 2*time.Second, GetDuration(2000))
}
