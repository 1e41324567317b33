// Package parsers turns spam-number feed files into domain.FeedEntry values.
package parsers

import (
	"bufio"
	"io"
	"strings"
	"time"

	logpkg "github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// prefixMarker at the end of a token marks a prefix entry ("+1900*").
const prefixMarker = "*"

// ParsePlainList parses a newline-delimited list of numbers.
//
// Behavior:
// - '#' starts a comment (inline or whole-line)
// - a trailing '*' marks a prefix entry, otherwise the entry is exact
// - numbers are canonicalised; invalid tokens are skipped
// - duplicates are dropped, keeping first-seen order
// - each entry is attributed to source and timestamped with now
func ParsePlainList(r io.Reader, source string, logger logpkg.Logger, now time.Time) ([]domain.FeedEntry, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	out := make([]domain.FeedEntry, 0, 256)
	logger.Debug(map[string]any{"source": source}, "parse_plain_list_start")
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimPrefix(scanner.Text(), "\uFEFF")
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		token := strings.TrimSpace(line)
		if token == "" {
			continue
		}

		prefix := strings.HasSuffix(token, prefixMarker)
		token = strings.TrimSuffix(token, prefixMarker)

		entry, err := domain.NewFeedEntry(token, prefix, source, now)
		if err != nil {
			logger.Debug(map[string]any{"line": lineNum, "raw": token, "error": err.Error()}, "skip_invalid_number")
			continue
		}
		key := entry.Number + "|" + kindLabel(prefix)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "parse_plain_list_scan_error")
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_plain_list_done")
	return out, nil
}

func kindLabel(prefix bool) string {
	if prefix {
		return "prefix"
	}
	return "exact"
}
