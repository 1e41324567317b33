// Package rulestore persists the call and SMS rule stores as JSON documents.
//
// Loading never fails hard: a missing file yields defaults, an unreadable or
// malformed file yields defaults plus an error describing why, and a document
// with individually invalid entries yields everything that did validate plus
// an error listing what was dropped. Callers log the error and carry on.
package rulestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// ErrInvalidDocument wraps every load problem other than a missing file.
var ErrInvalidDocument = errors.New("invalid rule store document")

// CallFile stores the call channel rules at Path.
type CallFile struct {
	Path string
}

// SMSFile stores the SMS channel rules at Path.
type SMSFile struct {
	Path string
}

// NewCallFile returns a CallFile for path.
func NewCallFile(path string) *CallFile { return &CallFile{Path: path} }

// NewSMSFile returns an SMSFile for path.
func NewSMSFile(path string) *SMSFile { return &SMSFile{Path: path} }

// Load reads the call rules. The returned rules are always usable.
func (f *CallFile) Load() (domain.CallRules, error) {
	doc := defaultCallDocument()
	found, err := readDocument(f.Path, &doc)
	if err != nil {
		return domain.DefaultCallRules(), err
	}
	if !found {
		return domain.DefaultCallRules(), nil
	}
	return toCallRules(doc)
}

// Save writes the full call rule store.
func (f *CallFile) Save(r domain.CallRules) error {
	return writeDocument(f.Path, newCallDocument(r))
}

// Load reads the SMS rules. The returned rules are always usable.
func (f *SMSFile) Load() (domain.SMSRules, error) {
	doc := defaultSMSDocument()
	found, err := readDocument(f.Path, &doc)
	if err != nil {
		return domain.DefaultSMSRules(), err
	}
	if !found {
		return domain.DefaultSMSRules(), nil
	}
	return toSMSRules(doc)
}

// Save writes the full SMS rule store.
func (f *SMSFile) Save(r domain.SMSRules) error {
	return writeDocument(f.Path, newSMSDocument(r))
}

// readDocument decodes path over v, which holds the defaults for any key the
// file omits. found is false when the file does not exist.
func readDocument(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", ErrInvalidDocument, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", ErrInvalidDocument, path, err)
	}
	return true, nil
}

// writeDocument atomically replaces path with the JSON encoding of v.
func writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
