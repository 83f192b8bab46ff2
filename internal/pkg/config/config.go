package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. IAP_SPANNER_PROJECT.
const EnvPrefix = "IAP"

type Config struct {
	Spanner SpannerConfig `mapstructure:"spanner"`
	Journal JournalConfig `mapstructure:"journal"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Log     logger.Config `mapstructure:"log"`
}

type SpannerConfig struct {
	Project      string `mapstructure:"project"`
	Instance     string `mapstructure:"instance"`
	Database     string `mapstructure:"database"`
	EmulatorHost string `mapstructure:"emulator_host"`
}

// DatabasePath returns the fully qualified Spanner database name
func (s SpannerConfig) DatabasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", s.Project, s.Instance, s.Database)
}

// Endpoint returns the emulator endpoint without scheme, or "" for production
func (s SpannerConfig) Endpoint() string {
	return strings.TrimPrefix(strings.TrimPrefix(s.EmulatorHost, "http://"), "https://")
}

type JournalConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("spanner.project", "test-project")
	v.SetDefault("spanner.instance", "test-instance")
	v.SetDefault("spanner.database", "billing-db")
	v.SetDefault("spanner.emulator_host", "")
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.timeout", 10*time.Second)
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. envFiles are loaded into
// the environment first without overriding variables already set; with no
// envFiles a ".env" in the working directory is used if present.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Spanner.EmulatorHost == "" {
		cfg.Spanner.EmulatorHost = os.Getenv("SPANNER_EMULATOR_HOST")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Spanner.Project == "" || c.Spanner.Instance == "" || c.Spanner.Database == "" {
		return errors.New("spanner project, instance and database are required")
	}
	if c.Journal.Timeout <= 0 {
		return errors.New("journal timeout must be positive")
	}
	if c.Webhook.URL != "" && c.Webhook.Timeout <= 0 {
		return errors.New("webhook timeout must be positive")
	}
	return nil
}
