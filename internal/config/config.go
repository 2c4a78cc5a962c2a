package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment (or .env).
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	// Printed on invoice PDFs
	ShopName string `env:"SHOP_NAME" envDefault:"POS"`

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"` // mysql | sqlite
	DBDSN    string `env:"DB_DSN,required,notEmpty"`

	// Empty disables Redis: invoice notifications stay in-process and the
	// stock mirror / idempotency keys are skipped.
	RedisAddr string `env:"REDIS_ADDR"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	AllowRegistration bool   `env:"ALLOW_REGISTRATION" envDefault:"false"`

	LicenseRequired bool   `env:"LICENSE_REQUIRED" envDefault:"true"`
	LicenseSalt     string `env:"LICENSE_SALT"`

	// IANA zone used for invoice dates. Empty follows the host zone.
	TimeZone     string        `env:"POS_TIMEZONE"`
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"5m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	UploadDir   string   `env:"UPLOAD_DIR" envDefault:"./uploads"`
	WebDir      string   `env:"WEB_DIR" envDefault:"./web"`
}

// Load reads .env (if present) and then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.LicenseRequired && cfg.LicenseSalt == "" {
		return Config{}, fmt.Errorf("LICENSE_SALT is required when LICENSE_REQUIRED is set")
	}
	if cfg.SyncInterval <= 0 {
		return Config{}, fmt.Errorf("SYNC_INTERVAL must be positive, got %s", cfg.SyncInterval)
	}
	return cfg, nil
}
