package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PIHOLE_BASE_URL", "PIGROUP_BACKEND", "PIHOLE_REQUEST_TIMEOUT", "LOG_LEVEL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "http://pi.hole:8080", cfg.BaseURL)
	require.Equal(t, BackendRemote, cfg.Backend)
	require.Equal(t, "/etc/pihole/gravity.db", cfg.DatabaseFile)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.RestartDNS)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PIHOLE_BASE_URL", "https://pihole.lan")
	t.Setenv("PIGROUP_BACKEND", "local")
	t.Setenv("PIHOLE_REQUEST_TIMEOUT", "30")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "2s")
	t.Setenv("PIGROUP_RESTART_DNS", "true")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "https://pihole.lan", cfg.BaseURL)
	require.Equal(t, BackendLocal, cfg.Backend)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 2*time.Second, cfg.ShutdownGracePeriod)
	require.True(t, cfg.RestartDNS)
	require.Equal(t, 8080, cfg.Port)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PIGROUP_DOTENV_TEST=from-file\nPIGROUP_DOTENV_KEEP=from-file\n"), 0o600))

	t.Setenv("PIGROUP_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("PIGROUP_DOTENV_TEST"))
	t.Setenv("PIGROUP_DOTENV_KEEP", "from-env")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-file", os.Getenv("PIGROUP_DOTENV_TEST"))
	require.Equal(t, "from-env", os.Getenv("PIGROUP_DOTENV_KEEP"))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Backend: BackendRemote, BaseURL: "http://pi.hole", RequestTimeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown backend", Config{Backend: "ftl"}},
		{"remote without url", Config{Backend: BackendRemote, RequestTimeout: time.Second}},
		{"remote without timeout", Config{Backend: BackendRemote, BaseURL: "http://pi.hole"}},
		{"local without db", Config{Backend: BackendLocal}},
		{"local restart", Config{Backend: BackendLocal, DatabaseFile: "gravity.db", RestartDNS: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.cfg.Validate(), ErrInvalidConfig)
		})
	}
}
