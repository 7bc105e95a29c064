// internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8086",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "scope_service",
			SSLMode:  "disable",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Stream: StreamConfig{
			DefaultInterval: 100 * time.Millisecond,
			MinInterval:     20 * time.Millisecond,
		},
		App: AppConfig{
			Name:        "scope-service",
			Version:     "1.0.0",
			Environment: "development",
			AppID:       "scope-service-01",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing server host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "server.host",
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server.port",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host",
		},
		{
			name:    "missing app id",
			mutate:  func(c *Config) { c.App.AppID = "" },
			wantErr: "app.app_id",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "prod" },
			wantErr: "app.environment",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "zero min interval",
			mutate:  func(c *Config) { c.Stream.MinInterval = 0 },
			wantErr: "stream.min_interval",
		},
		{
			name: "default interval below minimum",
			mutate: func(c *Config) {
				c.Stream.DefaultInterval = 10 * time.Millisecond
			},
			wantErr: "stream.default_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEnvironments(t *testing.T) {
	for _, env := range []string{"development", "staging", "production", "test"} {
		cfg := validConfig()
		cfg.App.Environment = env
		if err := validate(cfg); err != nil {
			t.Errorf("validate() with environment %q: %v", env, err)
		}
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = 5433
	cfg.Database.User = "scope"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "instruments"
	cfg.Database.SSLMode = "require"

	want := "host=db.internal port=5433 user=scope password=secret dbname=instruments sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}

func TestGetServerAddr(t *testing.T) {
	cfg := validConfig()
	if got := cfg.GetServerAddr(); got != "0.0.0.0:8086" {
		t.Errorf("GetServerAddr() = %q, want %q", got, "0.0.0.0:8086")
	}
}

func TestEnvironmentChecks(t *testing.T) {
	cfg := validConfig()

	cfg.App.Environment = "production"
	cfg.App.Debug = false
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Errorf("production: IsProduction() = %v, IsDevelopment() = %v", cfg.IsProduction(), cfg.IsDevelopment())
	}
	if cfg.IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true in production without debug flag")
	}

	cfg.App.Debug = true
	if !cfg.IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false with debug flag set")
	}

	cfg.App.Environment = "development"
	cfg.App.Debug = false
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("development: IsDevelopment() = %v, IsProduction() = %v", cfg.IsDevelopment(), cfg.IsProduction())
	}
	if !cfg.IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false in development")
	}
}
