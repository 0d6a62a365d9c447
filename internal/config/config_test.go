package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 8080
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTSecret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 8*time.Hour {
		t.Errorf("expected default token TTL 8h, got %v", cfg.TokenTTL)
	}
	if cfg.OTP_TTL != 5*time.Minute {
		t.Errorf("expected default OTP TTL 5m, got %v", cfg.OTP_TTL)
	}
	if cfg.OTP_Length != 6 || cfg.OTP_MaxAttempts != 3 {
		t.Errorf("unexpected OTP defaults: length=%d attempts=%d", cfg.OTP_Length, cfg.OTP_MaxAttempts)
	}
	if cfg.OTP_ResendWindow != time.Minute {
		t.Errorf("expected default resend window 1m, got %v", cfg.OTP_ResendWindow)
	}
	if cfg.JWTIssuer != "authsvc" {
		t.Errorf("expected default issuer, got %q", cfg.JWTIssuer)
	}
	if cfg.IsProduction() {
		t.Error("default environment must not be production")
	}
}

func TestLoadFrom_MissingSecretFails(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 8080
`)
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected load to fail without a signing secret")
	}
}

func TestLoadFrom_EnvSecretOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected env secret to win, got %q", cfg.JWTSecret)
	}
}

func TestLoadFrom_EnvSecretAlone(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 8080
`)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected env secret, got %q", cfg.JWTSecret)
	}
}

func TestLoadFrom_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 9090
  environment: production
jwt:
  secret: s
  issuer: fda-auth
  ttl: 2h
otp:
  ttl: 10m
  length: 8
  max_attempts: 5
  resend_window: 90s
`)
	t.Setenv("APP_ENV", "")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("unexpected port %q", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.JWTIssuer != "fda-auth" || cfg.TokenTTL != 2*time.Hour {
		t.Errorf("jwt config mismatch: issuer=%q ttl=%v", cfg.JWTIssuer, cfg.TokenTTL)
	}
	if cfg.OTP_TTL != 10*time.Minute || cfg.OTP_Length != 8 || cfg.OTP_MaxAttempts != 5 {
		t.Errorf("otp config mismatch: %+v", cfg)
	}
	if cfg.OTP_ResendWindow != 90*time.Second {
		t.Errorf("unexpected resend window %v", cfg.OTP_ResendWindow)
	}
}

func TestLoadFrom_BadTTL(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s
  ttl: not-a-duration
`)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected load to fail on unparseable TTL")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected load to fail on a missing file")
	}
}
