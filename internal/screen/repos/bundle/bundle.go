// Package bundle imports rule bundles: YAML, TOML or JSON files carrying
// block lists, whitelists, call rules and SMS keyword filters that are merged
// into the live rule stores through their normal mutation operations.
//
// Sender numbers must be quoted in YAML and TOML so parsers keep the leading
// '+' and any leading zeros.
package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// ErrUnsupportedFormat is returned for files that are not YAML, TOML or JSON.
var ErrUnsupportedFormat = errors.New("unsupported bundle format")

// Bundle is the decoded content of a rule bundle file.
type Bundle struct {
	Call CallSection `koanf:"call"`
	SMS  SMSSection  `koanf:"sms"`
}

type CallSection struct {
	Blocked   []string    `koanf:"blocked" validate:"dive,required"`
	Whitelist []string    `koanf:"whitelist" validate:"dive,required"`
	Rules     []RuleEntry `koanf:"rules" validate:"dive"`
}

type RuleEntry struct {
	Type  string `koanf:"type" validate:"required,oneof=prefix pattern"`
	Value string `koanf:"value" validate:"required"`
}

type SMSSection struct {
	Blocked   []string       `koanf:"blocked" validate:"dive,required"`
	Whitelist []string       `koanf:"whitelist" validate:"dive,required"`
	Keywords  []KeywordEntry `koanf:"keywords" validate:"dive"`
}

// KeywordEntry is an SMS keyword filter. IsSpam defaults to true when omitted.
type KeywordEntry struct {
	Keyword string `koanf:"keyword" validate:"required"`
	IsSpam  *bool  `koanf:"is_spam"`
}

func (k KeywordEntry) spam() bool { return k.IsSpam == nil || *k.IsSpam }

var validate = validator.New(validator.WithRequiredStructEnabled())

// parserFor picks a koanf parser from the file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates a bundle file.
func Load(path string) (*Bundle, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load bundle %s: %w", path, err)
	}

	var b Bundle
	if err := k.Unmarshal("", &b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", path, err)
	}
	if err := validate.Struct(&b); err != nil {
		return nil, fmt.Errorf("invalid bundle %s: %w", path, err)
	}
	return &b, nil
}

// Empty reports whether the bundle carries nothing to apply.
func (b *Bundle) Empty() bool {
	return len(b.Call.Blocked)+len(b.Call.Whitelist)+len(b.Call.Rules)+
		len(b.SMS.Blocked)+len(b.SMS.Whitelist)+len(b.SMS.Keywords) == 0
}

// ruleKind converts a validated rule type.
func (r RuleEntry) ruleKind() (domain.RuleKind, error) {
	return domain.ParseRuleKind(r.Type)
}
