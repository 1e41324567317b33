package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

const testYAML = `
call:
  blocked: ["+15550100", "+15550101"]
  whitelist: ["+15550199"]
  rules:
    - type: prefix
      value: "+1900"
    - type: pattern
      value: "666"
sms:
  blocked: ["+15550102"]
  keywords:
    - keyword: ACME
    - keyword: lottery
      is_spam: false
`

const testJSON = `{
  "call": {"blocked": ["+15550100"]},
  "sms": {"whitelist": ["+15550100"], "keywords": [{"keyword": "prize", "is_spam": true}]}
}`

const testTOML = `
[call]
blocked = ["+15550100"]

[[call.rules]]
type = "prefix"
value = "+44"
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Formats(t *testing.T) {
	b, err := Load(writeFile(t, "rules.yaml", testYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550100", "+15550101"}, b.Call.Blocked)
	assert.Equal(t, []string{"+15550199"}, b.Call.Whitelist)
	require.Len(t, b.Call.Rules, 2)
	assert.Equal(t, RuleEntry{Type: "prefix", Value: "+1900"}, b.Call.Rules[0])
	require.Len(t, b.SMS.Keywords, 2)
	assert.True(t, b.SMS.Keywords[0].spam())
	assert.False(t, b.SMS.Keywords[1].spam())

	b, err = Load(writeFile(t, "rules.json", testJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550100"}, b.SMS.Whitelist)
	assert.False(t, b.Empty())

	b, err = Load(writeFile(t, "rules.toml", testTOML))
	require.NoError(t, err)
	require.Len(t, b.Call.Rules, 1)
	assert.Equal(t, "+44", b.Call.Rules[0].Value)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "rules.ini", "x=1"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "call:\n  rules:\n    - type: regex\n      value: x\n"))
	assert.Error(t, err, "unknown rule type fails validation")

	_, err = Load(writeFile(t, "bad.json", "{not json"))
	assert.Error(t, err)
}

func TestBundle_Empty(t *testing.T) {
	b, err := Load(writeFile(t, "empty.yaml", "call: {}\n"))
	require.NoError(t, err)
	assert.True(t, b.Empty())
}

type recordingTarget struct {
	ops  []string
	fail map[string]bool
}

func (r *recordingTarget) do(op string) error {
	if r.fail[op] {
		return errors.New("rejected")
	}
	r.ops = append(r.ops, op)
	return nil
}

func (r *recordingTarget) AddBlocked(s string) error     { return r.do("block " + s) }
func (r *recordingTarget) AddWhitelisted(s string) error { return r.do("allow " + s) }
func (r *recordingTarget) AddRule(k domain.RuleKind, v string) error {
	return r.do("rule " + k.String() + " " + v)
}
func (r *recordingTarget) AddKeywordFilter(k string, spam bool) error {
	if spam {
		return r.do("keyword " + k)
	}
	return r.do("ham " + k)
}

func TestApply(t *testing.T) {
	b, err := Load(writeFile(t, "rules.yaml", testYAML))
	require.NoError(t, err)

	call := &recordingTarget{fail: map[string]bool{"block +15550101": true}}
	sms := &recordingTarget{}
	sum, err := b.Apply(call, sms)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "call blocked +15550101")
	assert.Equal(t, Summary{Applied: 7, Rejected: 1}, sum)

	assert.Equal(t, []string{
		"block +15550100",
		"allow +15550199",
		"rule prefix +1900",
		"rule pattern 666",
	}, call.ops)
	assert.Equal(t, []string{"block +15550102", "keyword ACME", "ham lottery"}, sms.ops)
}

func TestApply_NilTargets(t *testing.T) {
	b, err := Load(writeFile(t, "rules.json", testJSON))
	require.NoError(t, err)
	sum, err := b.Apply(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
}
