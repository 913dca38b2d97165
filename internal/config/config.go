// Package config loads runtime settings from .env and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	Addr        string
	DBPath      string
	Env         string
	Location    *time.Location
	BadgePolicy string
	LogLevel    slog.Level
	LogJSON     bool

	ResendKey string
	EmailFrom string

	MidtransServerKey  string
	MidtransProduction bool

	GoogleClientID string
	ResetSecret    string
	CSRFKey        string

	MediaDir string
	MediaURL string

	PublicURL      string   // base URL used in emailed links
	TrustedOrigins []string // extra origins allowed to post forms

	AdminEmail    string
	AdminPassword string

	SlowQueryMs     int
	BulkConcurrency int
}

// Secure reports whether the server is reached over HTTPS.
func (c Config) Secure() bool {
	return strings.HasPrefix(c.PublicURL, "https://")
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and then the environment.
// Variables already set in the environment win over .env values.
// POST: returned Config has every field defaulted
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	c := Config{
		Addr:              get("GYMHUB_ADDR", ":8080"),
		DBPath:            get("GYMHUB_DB_PATH", "gymhub.db"),
		Env:               get("GYMHUB_ENV", "development"),
		BadgePolicy:       get("GYMHUB_BADGE_POLICY", "once"),
		LogJSON:           get("GYMHUB_LOG_FORMAT", "text") == "json",
		ResendKey:         getenv("GYMHUB_RESEND_KEY"),
		EmailFrom:         get("GYMHUB_EMAIL_FROM", "GymHub <noreply@gymhub.local>"),
		MidtransServerKey: getenv("GYMHUB_MIDTRANS_SERVER_KEY"),
		GoogleClientID:    getenv("GYMHUB_GOOGLE_CLIENT_ID"),
		ResetSecret:       getenv("GYMHUB_RESET_SECRET"),
		CSRFKey:           getenv("GYMHUB_CSRF_KEY"),
		MediaDir:          get("GYMHUB_MEDIA_DIR", "media"),
		MediaURL:          get("GYMHUB_MEDIA_URL", "/media"),
		PublicURL:         strings.TrimRight(get("GYMHUB_PUBLIC_URL", "http://localhost:8080"), "/"),
		AdminEmail:        get("GYMHUB_ADMIN_EMAIL", "admin@gymhub.local"),
		AdminPassword:     getenv("GYMHUB_ADMIN_PASSWORD"),
	}

	for _, o := range strings.Split(getenv("GYMHUB_TRUSTED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.TrustedOrigins = append(c.TrustedOrigins, o)
		}
	}

	loc, err := time.LoadLocation(get("GYMHUB_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("GYMHUB_TIMEZONE: %w", err)
	}
	c.Location = loc

	if err := c.LogLevel.UnmarshalText([]byte(get("GYMHUB_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("GYMHUB_LOG_LEVEL: %w", err)
	}

	if c.MidtransProduction, err = strconv.ParseBool(get("GYMHUB_MIDTRANS_PRODUCTION", "false")); err != nil {
		return Config{}, fmt.Errorf("GYMHUB_MIDTRANS_PRODUCTION: %w", err)
	}
	if c.SlowQueryMs, err = positiveInt(get("GYMHUB_SLOW_QUERY_MS", "50")); err != nil {
		return Config{}, fmt.Errorf("GYMHUB_SLOW_QUERY_MS: %w", err)
	}
	if c.BulkConcurrency, err = positiveInt(get("GYMHUB_BULK_CONCURRENCY", "8")); err != nil {
		return Config{}, fmt.Errorf("GYMHUB_BULK_CONCURRENCY: %w", err)
	}

	if c.IsProduction() {
		if c.ResetSecret == "" {
			return Config{}, errors.New("GYMHUB_RESET_SECRET is required in production")
		}
		if len(c.CSRFKey) < 32 {
			return Config{}, errors.New("GYMHUB_CSRF_KEY must be at least 32 bytes in production")
		}
	}
	return c, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
