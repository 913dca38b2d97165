package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestFromEnv_Defaults fills every setting when the environment is empty.
func TestFromEnv_Defaults(t *testing.T) {
	c, err := fromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if c.Addr != ":8080" || c.BadgePolicy != "once" || c.MediaURL != "/media" {
		t.Errorf("defaults = %+v", c)
	}
	if c.SlowQueryMs != 50 || c.BulkConcurrency != 8 || c.LogLevel != slog.LevelInfo {
		t.Errorf("numeric defaults = %d %d %v", c.SlowQueryMs, c.BulkConcurrency, c.LogLevel)
	}
	if c.Location == nil || c.IsProduction() {
		t.Errorf("location=%v production=%v", c.Location, c.IsProduction())
	}
}

// TestFromEnv_Overrides parses typed values.
func TestFromEnv_Overrides(t *testing.T) {
	c, err := fromEnv(envMap(map[string]string{
		"GYMHUB_TIMEZONE":            "UTC",
		"GYMHUB_LOG_LEVEL":           "debug",
		"GYMHUB_LOG_FORMAT":          "json",
		"GYMHUB_MIDTRANS_PRODUCTION": "true",
		"GYMHUB_BULK_CONCURRENCY":    "2",
		"GYMHUB_PUBLIC_URL":          "https://gym.example.com/",
		"GYMHUB_TRUSTED_ORIGINS":     "gym.example.com, admin.example.com",
	}))
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if c.Location.String() != "UTC" || c.LogLevel != slog.LevelDebug || !c.LogJSON || !c.MidtransProduction || c.BulkConcurrency != 2 {
		t.Errorf("parsed = %+v", c)
	}
	if c.PublicURL != "https://gym.example.com" || !c.Secure() {
		t.Errorf("PublicURL = %q, Secure = %v", c.PublicURL, c.Secure())
	}
	if len(c.TrustedOrigins) != 2 || c.TrustedOrigins[1] != "admin.example.com" {
		t.Errorf("TrustedOrigins = %q", c.TrustedOrigins)
	}
}

// TestFromEnv_Invalid rejects malformed values.
func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"timezone", map[string]string{"GYMHUB_TIMEZONE": "Mars/Olympus"}},
		{"level", map[string]string{"GYMHUB_LOG_LEVEL": "loud"}},
		{"concurrency", map[string]string{"GYMHUB_BULK_CONCURRENCY": "0"}},
		{"slow query", map[string]string{"GYMHUB_SLOW_QUERY_MS": "abc"}},
		{"production secrets", map[string]string{"GYMHUB_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fromEnv(envMap(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestLoadFile_DotEnv reads values from a dotenv file without overriding the environment.
func TestLoadFile_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GYMHUB_ADDR=:9999\nGYMHUB_MEDIA_DIR=/tmp/from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GYMHUB_MEDIA_DIR", "/tmp/from-env")
	t.Setenv("GYMHUB_ADDR", "")
	os.Unsetenv("GYMHUB_ADDR")

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", c.Addr)
	}
	if c.MediaDir != "/tmp/from-env" {
		t.Errorf("MediaDir = %q, want environment value", c.MediaDir)
	}
}

// TestLoadFile_Missing tolerates an absent dotenv file.
func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("LoadFile: %v", err)
	}
}
