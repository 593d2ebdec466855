package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Pipeline.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.BatchDelay != 10*time.Second {
		t.Errorf("BatchDelay = %v, want 10s", cfg.Pipeline.BatchDelay)
	}
	if cfg.Inbox.InboxDir != "report_inbox" || cfg.Inbox.ProcessedDir != "processed_reports" {
		t.Errorf("inbox dirs = %q, %q", cfg.Inbox.InboxDir, cfg.Inbox.ProcessedDir)
	}
	if cfg.Observability.ServiceName != serviceName {
		t.Errorf("ServiceName = %q, want %q", cfg.Observability.ServiceName, serviceName)
	}
	if cfg.Observability.Environment != cfg.Primary.Env {
		t.Errorf("Environment = %q, want %q", cfg.Observability.Environment, cfg.Primary.Env)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("NETANOMICS_PRIMARY__ENV", "production")
	t.Setenv("NETANOMICS_DATABASE__PORT", "6543")
	t.Setenv("NETANOMICS_PIPELINE__BATCH_DELAY", "250ms")
	t.Setenv("NETANOMICS_PIPELINE__DRY_RUN", "true")
	t.Setenv("NETANOMICS_LLM__MODEL", "gemini-1.5-pro")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Database.Port != 6543 {
		t.Errorf("Database.Port = %d, want 6543", cfg.Database.Port)
	}
	if cfg.Pipeline.BatchDelay != 250*time.Millisecond {
		t.Errorf("BatchDelay = %v, want 250ms", cfg.Pipeline.BatchDelay)
	}
	if !cfg.Pipeline.DryRun {
		t.Error("DryRun = false, want true")
	}
	if cfg.LLM.Model != "gemini-1.5-pro" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if !cfg.Observability.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	// Untouched keys keep their defaults.
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("NETANOMICS_PIPELINE__BATCH_SIZE", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() error = nil, want validation error")
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"NETANOMICS_SERVER__PORT":                      "server.port",
		"NETANOMICS_OBSERVABILITY__LOGGING__LEVEL":     "observability.logging.level",
		"NETANOMICS_INTEGRATION__RESEND_API_KEY":       "integration.resend_api_key",
		"NETANOMICS_PIPELINE__CONCENTRATION_THRESHOLD": "pipeline.concentration_threshold",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ObservabilityConfig) {}},
		{name: "bad level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "bad format", mutate: func(c *ObservabilityConfig) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
		{name: "missing service", mutate: func(c *ObservabilityConfig) { c.ServiceName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{User: "app", Password: "p@ss:word", Host: "db", Port: 5432, Name: "mplads", SSLMode: "disable"}
	want := "postgres://app:p%40ss%3Aword@db:5432/mplads?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}

func TestHealthChecksIncludes(t *testing.T) {
	tests := []struct {
		name string
		cfg  HealthChecksConfig
		want map[string]bool
	}{
		{"disabled", HealthChecksConfig{Enabled: false}, map[string]bool{"database": false, "redis": false}},
		{"empty list checks all", HealthChecksConfig{Enabled: true}, map[string]bool{"database": true, "redis": true}},
		{"database only", HealthChecksConfig{Enabled: true, Checks: []string{"database"}}, map[string]bool{"database": true, "redis": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, want := range tt.want {
				if got := tt.cfg.Includes(name); got != want {
					t.Errorf("Includes(%q) = %v, want %v", name, got, want)
				}
			}
		})
	}
}
