package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected Log.Level=info, got %q", cfg.Log.Level)
	}
	if cfg.Rules.CallFile != "/var/lib/rr-screen/blocked_numbers.json" {
		t.Errorf("unexpected Rules.CallFile %q", cfg.Rules.CallFile)
	}
	if cfg.Rules.SMSFile != "/var/lib/rr-screen/sms_filters.json" {
		t.Errorf("unexpected Rules.SMSFile %q", cfg.Rules.SMSFile)
	}
	if cfg.History.DB != "/var/lib/rr-screen/history.db" {
		t.Errorf("expected persisted history by default, got %q", cfg.History.DB)
	}
	if cfg.Feed.Dir != "" {
		t.Errorf("expected feeds disabled by default, got %q", cfg.Feed.Dir)
	}
	if cfg.Feed.FPRate != 0.01 {
		t.Errorf("expected Feed.FPRate=0.01, got %v", cfg.Feed.FPRate)
	}
	if cfg.Feed.CacheSize != 1000 {
		t.Errorf("expected Feed.CacheSize=1000, got %d", cfg.Feed.CacheSize)
	}
	if cfg.Contacts.File != "" || cfg.Contacts.CacheSize != 512 {
		t.Errorf("unexpected Contacts %+v", cfg.Contacts)
	}
	if cfg.HTTP.Listen != "127.0.0.1:8053" {
		t.Errorf("expected HTTP.Listen=127.0.0.1:8053, got %q", cfg.HTTP.Listen)
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("SCREEN_ENV", "dev")
	t.Setenv("SCREEN_LOG_LEVEL", "debug")
	t.Setenv("SCREEN_RULES_CALL", "/tmp/calls.json")
	t.Setenv("SCREEN_RULES_SMS", "/tmp/sms.json")
	t.Setenv("SCREEN_HISTORY_DB", "/tmp/history.db")
	t.Setenv("SCREEN_FEED_DIR", "/tmp/feeds.d/")
	t.Setenv("SCREEN_FEED_DB", "/tmp/feeds.db")
	t.Setenv("SCREEN_FEED_FP_RATE", "0.001")
	t.Setenv("SCREEN_FEED_CACHE_SIZE", "0")
	t.Setenv("SCREEN_CONTACTS_FILE", "/tmp/contacts.txt")
	t.Setenv("SCREEN_CONTACTS_CACHE_SIZE", "64")
	t.Setenv("SCREEN_HTTP_LISTEN", ":9000")
	t.Setenv("SCREEN_UNRELATED", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "dev" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected env/log: %q %q", cfg.Env, cfg.Log.Level)
	}
	if cfg.Rules.CallFile != "/tmp/calls.json" || cfg.Rules.SMSFile != "/tmp/sms.json" {
		t.Errorf("unexpected Rules %+v", cfg.Rules)
	}
	if cfg.History.DB != "/tmp/history.db" {
		t.Errorf("unexpected History.DB %q", cfg.History.DB)
	}
	if cfg.Feed.Dir != "/tmp/feeds.d/" || cfg.Feed.DB != "/tmp/feeds.db" {
		t.Errorf("unexpected Feed %+v", cfg.Feed)
	}
	if cfg.Feed.FPRate != 0.001 || cfg.Feed.CacheSize != 0 {
		t.Errorf("unexpected Feed tuning %+v", cfg.Feed)
	}
	if cfg.Contacts.File != "/tmp/contacts.txt" || cfg.Contacts.CacheSize != 64 {
		t.Errorf("unexpected Contacts %+v", cfg.Contacts)
	}
	if cfg.HTTP.Listen != ":9000" {
		t.Errorf("unexpected HTTP.Listen %q", cfg.HTTP.Listen)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad env", map[string]string{"SCREEN_ENV": "staging"}},
		{"bad log level", map[string]string{"SCREEN_LOG_LEVEL": "trace"}},
		{"same rule files", map[string]string{"SCREEN_RULES_CALL": "/tmp/x.json", "SCREEN_RULES_SMS": "/tmp/x.json"}},
		{"fp rate too high", map[string]string{"SCREEN_FEED_FP_RATE": "1.5"}},
		{"negative cache", map[string]string{"SCREEN_CONTACTS_CACHE_SIZE": "-1"}},
		{"listen without port", map[string]string{"SCREEN_HTTP_LISTEN": "localhost"}},
		{"listen port zero", map[string]string{"SCREEN_HTTP_LISTEN": ":0"}},
		{"feed dir without db", map[string]string{"SCREEN_FEED_DIR": "/tmp/f", "SCREEN_FEED_DB": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %v", tc.env)
			}
		})
	}
}

func TestLoad_WhenKoanfDefaultLoadFails(t *testing.T) {
	orig := defaultLoader
	defaultLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { defaultLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading defaults")
	}
}

func TestLoad_WhenKoanfEnvLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { envLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading env")
	}
}

func TestLoad_RegisterValidationFails(t *testing.T) {
	orig := registerValidation
	registerValidation = func(v *validator.Validate) error { return errors.New("mocked validation error") }
	defer func() { registerValidation = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked validation error") {
		t.Fatal("expected error when registering validation")
	}
}
