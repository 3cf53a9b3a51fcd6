package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("deptquery-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Database.Path != "data/deptquery.db" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatal("Database.AutoMigrate should default to true in dev")
	}
	if cfg.Query.RowLimit != 200 {
		t.Fatalf("Query.RowLimit = %d", cfg.Query.RowLimit)
	}
	if cfg.UI.SchemaSampleRows != 5 {
		t.Fatalf("UI.SchemaSampleRows = %d", cfg.UI.SchemaSampleRows)
	}
	if cfg.AI.TranslateEnabled {
		t.Fatal("AI.TranslateEnabled should default to false")
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.History.Capacity != 50 {
		t.Fatalf("History.Capacity = %d", cfg.History.Capacity)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_PROFILE": "prod"})
	cfg, err := Load("deptquery-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if cfg.Database.AutoMigrate {
		t.Fatal("Database.AutoMigrate should default to false in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadTestProfileUsesMemoryDatabase(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_PROFILE": "test"})
	cfg, err := Load("deptquery-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != ":memory:" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Observability.LogLevel != slog.LevelWarn {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"DEPTQUERY_PROFILE":              "test",
		"DEPTQUERY_SERVICE_NAME":         "deptquery-custom",
		"DEPTQUERY_HTTP_ADDR":            ":9999",
		"DEPTQUERY_HTTP_READ_TIMEOUT":    "2s",
		"DEPTQUERY_HTTP_WRITE_TIMEOUT":   "3s",
		"DEPTQUERY_DB_PATH":              "/tmp/custom.db",
		"DEPTQUERY_DB_AUTO_MIGRATE":      "false",
		"DEPTQUERY_DB_BUSY_TIMEOUT":      "9s",
		"DEPTQUERY_QUERY_ROW_LIMIT":      "25",
		"DEPTQUERY_UI_SCHEMA_SAMPLE_ROWS": "3",
		"DEPTQUERY_AI_TRANSLATE_ENABLED": "true",
		"DEPTQUERY_AI_BASE_URL":          "https://api.example.com/v1",
		"DEPTQUERY_AI_API_KEY":           "secret-key",
		"DEPTQUERY_AI_MODEL":             "gpt-4.1",
		"DEPTQUERY_AI_TEMPERATURE":       "0.7",
		"DEPTQUERY_AI_MAX_TOKENS":        "128",
		"DEPTQUERY_AI_TIMEOUT":           "21s",
		"DEPTQUERY_HISTORY_CAPACITY":     "10",
		"DEPTQUERY_LOG_LEVEL":            "error",
		"DEPTQUERY_LOG_JSON":             "false",
	})
	cfg, err := Load("deptquery-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "deptquery-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.AutoMigrate {
		t.Fatal("Database.AutoMigrate should be overridden to false")
	}
	if cfg.Database.BusyTimeout != 9*time.Second {
		t.Fatalf("Database.BusyTimeout = %v", cfg.Database.BusyTimeout)
	}
	if cfg.Query.RowLimit != 25 {
		t.Fatalf("Query.RowLimit = %d", cfg.Query.RowLimit)
	}
	if cfg.UI.SchemaSampleRows != 3 {
		t.Fatalf("UI.SchemaSampleRows = %d", cfg.UI.SchemaSampleRows)
	}
	if !cfg.AI.TranslateEnabled {
		t.Fatal("AI.TranslateEnabled should be overridden to true")
	}
	if cfg.AI.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.Model != "gpt-4.1" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens != 128 {
		t.Fatalf("AI.MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if cfg.History.Capacity != 10 {
		t.Fatalf("History.Capacity = %d", cfg.History.Capacity)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogJSON {
		t.Fatal("LogJSON should be overridden to false")
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_PROFILE": "staging"})
	_, err := Load("deptquery-api", lookup)
	if err == nil {
		t.Fatal("expected error for invalid profile")
	}
	if !strings.Contains(err.Error(), "DEPTQUERY_PROFILE") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_HTTP_READ_TIMEOUT": "soon"})
	_, err := Load("deptquery-api", lookup)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_LOG_LEVEL": "verbose"})
	_, err := Load("deptquery-api", lookup)
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestLoadRejectsEmptyDatabasePath(t *testing.T) {
	lookup := mapLookup(map[string]string{"DEPTQUERY_DB_PATH": "  "})
	_, err := Load("deptquery-api", lookup)
	if err == nil {
		t.Fatal("expected error for empty database path")
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
