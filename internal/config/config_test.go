package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "jcbean.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("SFTP_HOST", "sftp.partner.example")
	t.Setenv("SFTP_USERNAME", "jcbean")
	t.Setenv("SFTP_PASSWORD", "secret")
	t.Setenv("LOG_FILE", "logs/sync.log")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "2024-04", cfg.Shopify.APIVersion)
	assert.Equal(t, 22, cfg.SFTP.Port)
	assert.Equal(t, "open", cfg.OrdersStatus)
	assert.Equal(t, time.Second, cfg.StageDelay)
	assert.Equal(t, "files/tmp", cfg.Files.WorkDir)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("SFTP_HOST", "")
	t.Setenv("LOG_FILE", "")

	_, err := LoadFile("")
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"SFTP_HOST", "LOG_FILE"}, cfgErr.Missing)
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("ORDERS_STATUS", "any")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ORDERS_STATUS=closed\nSTAGE_DELAY=250ms\nNOTIFY_TO=a@x.com, b@x.com\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STAGE_DELAY")
		os.Unsetenv("NOTIFY_TO")
	})

	cfg, err := LoadFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "any", cfg.OrdersStatus)
	assert.Equal(t, 250*time.Millisecond, cfg.StageDelay)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.SMTP.To)
}

func TestLoadSMTPRequiresSender(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.office365.com")
	t.Setenv("NOTIFY_FROM", "")

	_, err := LoadFile("")

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"NOTIFY_FROM"}, cfgErr.Missing)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	setRequired(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestLoadShopifyIgnoresTransferSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("SFTP_HOST", "")
	t.Setenv("SFTP_USERNAME", "")
	t.Setenv("SFTP_PASSWORD", "")
	t.Setenv("LOG_FILE", "")

	cfg, err := LoadShopifyFile("")
	require.NoError(t, err)
	assert.Equal(t, "jcbean.myshopify.com", cfg.Shopify.ShopDomain)

	_, err = LoadFile("")
	assert.Error(t, err)
}

func TestLoadShopifyRequiresCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")

	_, err := LoadShopifyFile("")

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"SHOPIFY_ACCESS_TOKEN"}, cfgErr.Missing)
}
