package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir moves the test into an empty directory so no stray .env or config file is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("TODO_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8000" || cfg.Database.Path != "data/jwt-todo.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.BcryptCost != 10 || cfg.Log.Level != "info" {
		t.Fatalf("unexpected auth/log settings: %+v", cfg)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	chdir(t)
	t.Setenv("TODO_AUTH_JWTSECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when jwt secret is not set")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("TODO_AUTH_JWTSECRET", "x")
	t.Setenv("TODO_SERVER_ADDR", ":9999")
	t.Setenv("TODO_DATABASE_PATH", "/tmp/todo.db")
	t.Setenv("TODO_AUTH_BCRYPTCOST", "4")
	t.Setenv("TODO_AUTH_ADMINNAME", "root")
	t.Setenv("TODO_AUTH_ADMINPASSWORD", "toor")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Database.Path != "/tmp/todo.db" || cfg.Auth.BcryptCost != 4 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Auth.AdminName != "root" || cfg.Auth.AdminPassword != "toor" {
		t.Fatalf("admin bootstrap not applied: %+v", cfg)
	}
}

func TestLoad_AdminNeedsPassword(t *testing.T) {
	chdir(t)
	t.Setenv("TODO_AUTH_JWTSECRET", "x")
	t.Setenv("TODO_AUTH_ADMINNAME", "root")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for admin name without password")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdir(t)
	content := "# comment\nTODO_AUTH_JWTSECRET=\"from-dotenv\"\nTODO_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// t.Setenv restores the original values; the loader only fills unset keys
	t.Setenv("TODO_AUTH_JWTSECRET", "")
	t.Setenv("TODO_LOG_LEVEL", "")
	_ = os.Unsetenv("TODO_AUTH_JWTSECRET")
	_ = os.Unsetenv("TODO_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-dotenv" || cfg.Log.Level != "debug" {
		t.Fatalf(".env values not applied: %+v", cfg)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := chdir(t)
	content := "TODO_AUTH_JWTSECRET=from-dotenv\nTODO_SERVER_ADDR=':7000'\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("TODO_AUTH_JWTSECRET", "from-env")
	t.Setenv("TODO_SERVER_ADDR", "")
	_ = os.Unsetenv("TODO_SERVER_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("environment must win over .env, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Addr != ":7000" {
		t.Fatalf("unset key should come from .env, got %q", cfg.Server.Addr)
	}
}
