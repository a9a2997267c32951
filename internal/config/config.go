package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthIssuer   string `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL  string `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience string `mapstructure:"AUTH_AUDIENCE"`

	// Webhook URLs for the external workflow automation tool. Deliberately
	// not validated at startup: an unset URL is an error at call time.
	FetchCustomerWebhookURL string        `mapstructure:"FETCH_CUSTOMER_WEBHOOK_URL"`
	SubmitWebhookURL        string        `mapstructure:"SUBMIT_WEBHOOK_URL"`
	WebhookTimeout          time.Duration `mapstructure:"WEBHOOK_TIMEOUT"`

	// Readiness polling after a customer fetch (advisory only).
	QueuePollAttempts int           `mapstructure:"QUEUE_POLL_ATTEMPTS"`
	QueuePollInterval time.Duration `mapstructure:"QUEUE_POLL_INTERVAL"`

	// Identity provider management API (role assignment).
	IDPAPIURL string `mapstructure:"IDP_API_URL"`
	IDPAPIKey string `mapstructure:"IDP_API_KEY"`

	// Optional JSON file overriding the built-in medicine/bundle catalog.
	CatalogFile string `mapstructure:"CATALOG_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("WEBHOOK_TIMEOUT", "30s")
	v.SetDefault("QUEUE_POLL_ATTEMPTS", 10)
	v.SetDefault("QUEUE_POLL_INTERVAL", "1s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("FETCH_CUSTOMER_WEBHOOK_URL")
	v.BindEnv("SUBMIT_WEBHOOK_URL")
	v.BindEnv("WEBHOOK_TIMEOUT")
	v.BindEnv("QUEUE_POLL_ATTEMPTS")
	v.BindEnv("QUEUE_POLL_INTERVAL")
	v.BindEnv("IDP_API_URL")
	v.BindEnv("IDP_API_KEY")
	v.BindEnv("CATALOG_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; all requests get the doctor role.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// a real token issuer must be configured so authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.AuthJWKSURL == "" {
		return fmt.Errorf("AUTH_ISSUER or AUTH_JWKS_URL must be set when ENV is %q; refusing to start without authentication", c.Env)
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive, got %s", c.WebhookTimeout)
	}
	if c.QueuePollAttempts < 0 {
		return fmt.Errorf("QUEUE_POLL_ATTEMPTS must not be negative, got %d", c.QueuePollAttempts)
	}
	return nil
}
