package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "BASE_URL", "DATABASE_URL", "REDIS_ADDR",
		"REDIS_PASSWORD", "CACHE_TTL", "PROBE_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFrom(t *testing.T) {
	type want struct {
		port         string
		baseURL      string
		dbURL        string
		redisAddr    string
		cacheTTL     time.Duration
		probeTimeout time.Duration
		err          error
	}

	tests := []struct {
		name    string
		envVars map[string]string
		file    string
		want    want
	}{
		{
			name:    "defaults",
			envVars: map[string]string{"DATABASE_URL": "postgres://u:p@localhost:5432/db"},
			want: want{
				port:         "8080",
				baseURL:      "http://localhost:8080",
				dbURL:        "postgres://u:p@localhost:5432/db",
				cacheTTL:     24 * time.Hour,
				probeTimeout: 5 * time.Second,
			},
		},
		{
			name: "environment variables",
			envVars: map[string]string{
				"APP_PORT":      "9090",
				"BASE_URL":      "https://sho.rt/",
				"DATABASE_URL":  "postgres://env",
				"REDIS_ADDR":    "localhost:6379",
				"CACHE_TTL":     "1h",
				"PROBE_TIMEOUT": "2s",
			},
			want: want{
				port:         "9090",
				baseURL:      "https://sho.rt",
				dbURL:        "postgres://env",
				redisAddr:    "localhost:6379",
				cacheTTL:     time.Hour,
				probeTimeout: 2 * time.Second,
			},
		},
		{
			name: "env file",
			file: "APP_PORT=7070\nDATABASE_URL=postgres://file\n",
			want: want{
				port:         "7070",
				baseURL:      "http://localhost:7070",
				dbURL:        "postgres://file",
				cacheTTL:     24 * time.Hour,
				probeTimeout: 5 * time.Second,
			},
		},
		{
			name:    "environment overrides env file",
			envVars: map[string]string{"DATABASE_URL": "postgres://env"},
			file:    "DATABASE_URL=postgres://file\n",
			want: want{
				port:         "8080",
				baseURL:      "http://localhost:8080",
				dbURL:        "postgres://env",
				cacheTTL:     24 * time.Hour,
				probeTimeout: 5 * time.Second,
			},
		},
		{
			name:    "missing database url",
			envVars: map[string]string{},
			want:    want{err: ErrMissingDatabaseURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			path := filepath.Join(t.TempDir(), ".env")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}

			cfg, err := LoadFrom(path)
			if tt.want.err != nil {
				require.ErrorIs(t, err, tt.want.err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.port, cfg.App.Port)
			assert.Equal(t, tt.want.baseURL, cfg.App.BaseURL)
			assert.Equal(t, tt.want.dbURL, cfg.DB.URL)
			assert.Equal(t, tt.want.redisAddr, cfg.Redis.Addr)
			assert.Equal(t, tt.want.cacheTTL, cfg.Redis.TTL)
			assert.Equal(t, tt.want.probeTimeout, cfg.Probe.Timeout)
		})
	}
}
