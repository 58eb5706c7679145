package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
)

func TestNewWithConfigWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Environment: "development",
		LogLevel:    "info",
		LogFile:     filepath.Join(dir, "logs", "pfsh.log"),
		Shopify:     config.ShopifyConfig{ShopDomain: "jcbean.myshopify.com", AccessToken: "tok", APIVersion: "2024-04"},
		SFTP:        config.SFTPConfig{Host: "sftp.example.com", Port: 22, Username: "u", Password: "p"},
	}

	a, closeFn, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.RunID)
	assert.Equal(t, a.RunID, a.Events.RunID())
	assert.NotNil(t, a.Exporter())
	assert.NotNil(t, a.Reconciler())

	a.Logger.Info("Bootstrap complete")
	closeFn()

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Bootstrap complete")
}

func TestNewWithConfigRejectsBadLogLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "loud", LogFile: filepath.Join(t.TempDir(), "x.log")}
	_, _, err := NewWithConfig(context.Background(), cfg)
	assert.Error(t, err)
}
