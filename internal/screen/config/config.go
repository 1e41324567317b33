package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log      LogConfig      `koanf:"log"`
	Rules    RulesConfig    `koanf:"rules"`
	History  HistoryConfig  `koanf:"history"`
	Feed     FeedConfig     `koanf:"feed"`
	Contacts ContactsConfig `koanf:"contacts"`
	HTTP     HTTPConfig     `koanf:"http"`
}

type LogConfig struct {
	// Level controls log verbosity: "debug", "info", "warn", or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// RulesConfig locates the two persisted rule store documents.
type RulesConfig struct {
	CallFile string `koanf:"call_file" validate:"required"`
	SMSFile  string `koanf:"sms_file" validate:"required,nefield=CallFile"`
}

// HistoryConfig selects the frequency history backend. Setting DB to the
// empty string keeps history in memory only.
type HistoryConfig struct {
	DB string `koanf:"db"`
}

// FeedConfig controls the bulk number feed index. An empty Dir disables feeds.
type FeedConfig struct {
	Dir       string  `koanf:"dir"`
	DB        string  `koanf:"db" validate:"required_with=Dir"`
	FPRate    float64 `koanf:"fp_rate" validate:"gt=0,lt=1"`
	CacheSize int     `koanf:"cache_size" validate:"gte=0"`
}

// ContactsConfig selects the contact resolver. An empty File treats every
// sender as a contact, which is the non-mobile default.
type ContactsConfig struct {
	File      string `koanf:"file"`
	CacheSize int    `koanf:"cache_size" validate:"gte=0"`
}

type HTTPConfig struct {
	Listen string `koanf:"listen" validate:"required,listen_addr"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings.
var DEFAULT_APP_CONFIG = AppConfig{
	Env: "prod",
	Log: LogConfig{Level: "info"},
	Rules: RulesConfig{
		CallFile: "/var/lib/rr-screen/blocked_numbers.json",
		SMSFile:  "/var/lib/rr-screen/sms_filters.json",
	},
	History: HistoryConfig{DB: "/var/lib/rr-screen/history.db"},
	Feed: FeedConfig{
		DB:        "/var/lib/rr-screen/feeds.db",
		FPRate:    0.01,
		CacheSize: 1000,
	},
	Contacts: ContactsConfig{CacheSize: 512},
	HTTP:     HTTPConfig{Listen: "127.0.0.1:8053"},
}

// envKeys maps SCREEN_-prefixed variable names onto configuration paths.
var envKeys = map[string]string{
	"ENV":                 "env",
	"LOG_LEVEL":           "log.level",
	"RULES_CALL":          "rules.call_file",
	"RULES_SMS":           "rules.sms_file",
	"HISTORY_DB":          "history.db",
	"FEED_DIR":            "feed.dir",
	"FEED_DB":             "feed.db",
	"FEED_FP_RATE":        "feed.fp_rate",
	"FEED_CACHE_SIZE":     "feed.cache_size",
	"CONTACTS_FILE":       "contacts.file",
	"CONTACTS_CACHE_SIZE": "contacts.cache_size",
	"HTTP_LISTEN":         "http.listen",
}

// validListenAddr accepts "host:port" where host may be empty and port is 1-65535.
func validListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || port == "" {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0
}

// envLoader loads SCREEN_* variables listed in envKeys; anything else is
// ignored. It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "SCREEN_",
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[strings.TrimPrefix(key, "SCREEN_")]
			if !ok {
				return "", nil
			}
			return path, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("listen_addr", validListenAddr)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
