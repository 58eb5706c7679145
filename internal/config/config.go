package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/angelopoggi/PFSH-Parser/pkg/errors"
)

type Config struct {
	Environment  string
	LogLevel     string
	LogFile      string
	OrdersStatus string        // ORDERS_STATUS: status filter used when exporting orders
	StageDelay   time.Duration // STAGE_DELAY: pause between pipeline stages
	Shopify      ShopifyConfig
	SFTP         SFTPConfig
	Files        FilesConfig
	SMTP         SMTPConfig
	Database     DatabaseConfig
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// SFTPConfig is the partner's file-drop server
type SFTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	KnownHosts string // SFTP_KNOWN_HOSTS: known_hosts file; empty skips host key verification
}

// FilesConfig names the files exchanged with the partner
type FilesConfig struct {
	WorkDir              string
	BaseInventoryFile    string
	UpdatedInventoryFile string
	UpdatedOrdersFile    string
	ShippingFile         string
}

// SMTPConfig is optional; an empty Host disables run notifications
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether notification email is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// DatabaseConfig is optional; an empty Host disables the sync event audit trail
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the audit database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads configuration from the environment and an optional .env file in
// the working directory.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. Variables already present in
// the environment win over the file.
func LoadFile(envFile string) (*Config, error) {
	cfg, err := read(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadShopify is Load for commands that only talk to Shopify: SFTP and the
// run log are not required.
func LoadShopify() (*Config, error) {
	return LoadShopifyFile(".env")
}

// LoadShopifyFile is LoadShopify with an explicit .env path
func LoadShopifyFile(envFile string) (*Config, error) {
	cfg, err := read(envFile)
	if err != nil {
		return nil, err
	}
	if missing := missingKeys(cfg.shopifyKeys()); len(missing) > 0 {
		return nil, &apperrors.ConfigurationError{Missing: missing}
	}
	return cfg, nil
}

func read(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDERS_STATUS", "open")
	v.SetDefault("STAGE_DELAY", "1s")
	v.SetDefault("SHOPIFY_API_VERSION", "2024-04")
	v.SetDefault("SFTP_PORT", 22)
	v.SetDefault("WORK_DIR", "files/tmp")
	v.SetDefault("BASE_INVENTORY_FILE", "PFSH_INVENTORY.csv")
	v.SetDefault("UPDATED_INVENTORY_FILE", "PFSH_INVENTORY_MATRIXIFY.csv")
	v.SetDefault("UPDATED_ORDERS_FILE", "JCBEAN_ORDERS.csv")
	v.SetDefault("SHIPPING_FILE", "SHIPPING.csv")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	cfg := &Config{
		Environment:  v.GetString("ENVIRONMENT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFile:      strings.TrimSpace(v.GetString("LOG_FILE")),
		OrdersStatus: v.GetString("ORDERS_STATUS"),
		StageDelay:   v.GetDuration("STAGE_DELAY"),
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(v.GetString("SHOPIFY_SHOP_DOMAIN")),
			AccessToken: strings.TrimSpace(v.GetString("SHOPIFY_ACCESS_TOKEN")),
			APIVersion:  v.GetString("SHOPIFY_API_VERSION"),
		},
		SFTP: SFTPConfig{
			Host:       strings.TrimSpace(v.GetString("SFTP_HOST")),
			Port:       v.GetInt("SFTP_PORT"),
			Username:   strings.TrimSpace(v.GetString("SFTP_USERNAME")),
			Password:   v.GetString("SFTP_PASSWORD"),
			KnownHosts: strings.TrimSpace(v.GetString("SFTP_KNOWN_HOSTS")),
		},
		Files: FilesConfig{
			WorkDir:              v.GetString("WORK_DIR"),
			BaseInventoryFile:    v.GetString("BASE_INVENTORY_FILE"),
			UpdatedInventoryFile: v.GetString("UPDATED_INVENTORY_FILE"),
			UpdatedOrdersFile:    v.GetString("UPDATED_ORDERS_FILE"),
			ShippingFile:         v.GetString("SHIPPING_FILE"),
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(v.GetString("SMTP_HOST")),
			Port:     v.GetInt("SMTP_PORT"),
			Username: strings.TrimSpace(v.GetString("SMTP_USERNAME")),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     strings.TrimSpace(v.GetString("NOTIFY_FROM")),
			To:       splitList(v.GetString("NOTIFY_TO")),
		},
		Database: DatabaseConfig{
			Host:     strings.TrimSpace(v.GetString("DB_HOST")),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
	}

	return cfg, nil
}

type setting struct {
	key   string
	value string
}

func (c *Config) shopifyKeys() []setting {
	return []setting{
		{"SHOPIFY_SHOP_DOMAIN", c.Shopify.ShopDomain},
		{"SHOPIFY_ACCESS_TOKEN", c.Shopify.AccessToken},
	}
}

func missingKeys(settings []setting) []string {
	var missing []string
	for _, s := range settings {
		if s.value == "" {
			missing = append(missing, s.key)
		}
	}
	return missing
}

func (c *Config) validate() error {
	missing := missingKeys(append(c.shopifyKeys(),
		setting{"SFTP_HOST", c.SFTP.Host},
		setting{"SFTP_USERNAME", c.SFTP.Username},
		setting{"SFTP_PASSWORD", c.SFTP.Password},
		setting{"LOG_FILE", c.LogFile},
	))
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		missing = append(missing, "NOTIFY_FROM")
	}
	if len(missing) > 0 {
		return &apperrors.ConfigurationError{Missing: missing}
	}
	if c.StageDelay < 0 {
		return fmt.Errorf("STAGE_DELAY must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
