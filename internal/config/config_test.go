package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mytodo.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STORAGE_DRIVER", "DB_PATH", "PORT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[storage]
driver = "memory"

[server]
addr = "127.0.0.1:9000"

[log]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "./data/mytodo.db" {
		t.Errorf("expected default path to survive, got %q", cfg.Storage.Path)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[storage]
path = "/from/file.db"
`)
	t.Setenv("DB_PATH", "/from/env.db")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Path != "/from/env.db" {
		t.Errorf("expected env path, got %q", cfg.Storage.Path)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("expected :3000, got %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected warn, got %q", cfg.Log.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
	}{
		{"bad toml", "[storage\n", nil, "failed to parse"},
		{"unknown key", "[storage]\nbogus = 1\n", nil, "unknown config keys"},
		{"unknown driver", "", map[string]string{"STORAGE_DRIVER": "redis"}, "unknown storage driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoad_PortForms(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{"3000", ":3000"},
		{":3000", ":3000"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
		{"[::1]:8080", "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tt.port)

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Server.Addr != tt.want {
				t.Errorf("PORT=%q: expected addr %q, got %q", tt.port, tt.want, cfg.Server.Addr)
			}
		})
	}
}
