package parsers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	logpkg "github.com/haukened/rr-screen/internal/screen/common/log"
	"github.com/haukened/rr-screen/internal/screen/domain"
)

// feedExtensions lists the file extensions read from a feed directory.
var feedExtensions = map[string]bool{".txt": true, ".list": true}

// LoadDir parses every feed file in dir, in name order. Entries listed by
// more than one file keep the first file's attribution. A file that cannot
// be opened is logged and skipped.
func LoadDir(dir string, logger logpkg.Logger, now time.Time) ([]domain.FeedEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read feed dir: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsDir() || !feedExtensions[strings.ToLower(filepath.Ext(it.Name()))] {
			continue
		}
		names = append(names, it.Name())
	}
	sort.Strings(names)

	seen := make(map[string]struct{})
	var out []domain.FeedEntry
	for _, name := range names {
		entries, err := parseFile(filepath.Join(dir, name), name, logger, now)
		if err != nil {
			logger.Warn(map[string]any{"file": name, "error": err}, "feed file skipped")
			continue
		}
		for _, e := range entries {
			key := e.Number + "|" + kindLabel(e.Prefix)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}
	logger.Info(map[string]any{"dir": dir, "files": len(names), "entries": len(out)}, "feed directory loaded")
	return out, nil
}

func parseFile(path, source string, logger logpkg.Logger, now time.Time) ([]domain.FeedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePlainList(f, source, logger, now)
}
