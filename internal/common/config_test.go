package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_DefaultEngine(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Engine.BreakEvenTolerance != 1.0 {
		t.Errorf("BreakEvenTolerance default = %v, want 1.0", cfg.Engine.BreakEvenTolerance)
	}
	if cfg.Engine.BreakEvenMaxIter != 60 {
		t.Errorf("BreakEvenMaxIter default = %d, want 60", cfg.Engine.BreakEvenMaxIter)
	}
	if len(cfg.Engine.DefaultPrecioVec) != 5 {
		t.Errorf("DefaultPrecioVec length = %d, want 5", len(cfg.Engine.DefaultPrecioVec))
	}
	if cfg.Engine.ScenarioHistoryLimit != 50 {
		t.Errorf("ScenarioHistoryLimit default = %d, want 50", cfg.Engine.ScenarioHistoryLimit)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("NUMERA_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_StorageEnvOverrides(t *testing.T) {
	t.Setenv("NUMERA_STORAGE_ADDRESS", "ws://db.internal:8000/rpc")
	t.Setenv("NUMERA_STORAGE_NAMESPACE", "prod")
	t.Setenv("NUMERA_STORAGE_DATABASE", "propiedades")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Address != "ws://db.internal:8000/rpc" {
		t.Errorf("Storage.Address = %q, want env value", cfg.Storage.Address)
	}
	if cfg.Storage.Namespace != "prod" {
		t.Errorf("Storage.Namespace = %q, want %q", cfg.Storage.Namespace, "prod")
	}
	if cfg.Storage.Database != "propiedades" {
		t.Errorf("Storage.Database = %q, want %q", cfg.Storage.Database, "propiedades")
	}
}

func TestConfig_AuthEnvOverrides(t *testing.T) {
	t.Setenv("NUMERA_AUTH_TOKEN_SECRET", "secret-from-env")
	t.Setenv("NUMERA_AUTH_TOKEN_EXPIRY", "1h")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Auth.TokenSecret != "secret-from-env" {
		t.Errorf("Auth.TokenSecret = %q, want %q", cfg.Auth.TokenSecret, "secret-from-env")
	}
	if cfg.Auth.GetTokenExpiry() != time.Hour {
		t.Errorf("GetTokenExpiry() = %v, want 1h", cfg.Auth.GetTokenExpiry())
	}
}

func TestAuthConfig_TokenExpiry_InvalidFallsBack(t *testing.T) {
	cfg := &AuthConfig{TokenExpiry: "not-a-duration"}
	if cfg.GetTokenExpiry() != 24*time.Hour {
		t.Errorf("GetTokenExpiry() = %v, want 24h fallback", cfg.GetTokenExpiry())
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Storage.Namespace != "numera" {
		t.Errorf("Storage.Namespace = %q, want default %q", cfg.Storage.Namespace, "numera")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numera.toml")
	content := `
environment = "production"

[server]
port = 9999

[engine]
break_even_tolerance = 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Engine.BreakEvenTolerance != 0.5 {
		t.Errorf("BreakEvenTolerance = %v, want 0.5", cfg.Engine.BreakEvenTolerance)
	}
	// Untouched sections keep defaults
	if cfg.Engine.BreakEvenMaxIter != 60 {
		t.Errorf("BreakEvenMaxIter = %d, want default 60", cfg.Engine.BreakEvenMaxIter)
	}
}
