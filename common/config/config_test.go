package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "Center App Store API", cfg.ServiceName)
	require.Equal(t, 5000, cfg.APIServer.Port)
	require.Equal(t, "http://localhost:5173", cfg.Frontend.URL)
	require.Equal(t, "pg", cfg.Database.Driver)
	require.Equal(t, "center-app", cfg.S3.Bucket)
	require.Equal(t, "center-app/releases", cfg.S3.ReleaseFolder)
	require.False(t, cfg.S3.EnableSSL)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CENTER_APP_SERVER_PORT", "8080")
	t.Setenv("CENTER_APP_FRONTEND_URL", "https://center.example.com")
	t.Setenv("CENTER_APP_S3_ACCESS_KEY_ID", "ak")
	t.Setenv("CENTER_APP_S3_ACCESS_KEY_SECRET", "sk")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.APIServer.Port)
	require.Equal(t, "https://center.example.com", cfg.Frontend.URL)
	require.Equal(t, "ak", cfg.S3.AccessKeyID)
	require.Equal(t, "sk", cfg.S3.AccessKeySecret)
}
