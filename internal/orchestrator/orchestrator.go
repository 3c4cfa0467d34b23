// Package orchestrator implements the scan and injection orchestration
// logic (C6): canonical file-list discovery, per-file parse-failure
// isolation, and a translation-id routing helper (RouteByIDPrefix). The
// engine handlers do not call RouteByIDPrefix: they hand the full id map to
// every file's inject function, and ids that match no file are not reported.
package orchestrator

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

var mapFilePattern = regexp.MustCompile(`^Map(\d+)\.json$`)

// DiscoverRpgMakerMapFiles lists MapNNN.json files in dataRoot, excluding
// MapInfos.json, sorted by map number.
func DiscoverRpgMakerMapFiles(dataRoot string) ([]string, error) {
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		return nil, err
	}
	type mapFile struct {
		name string
		num  int
	}
	var found []mapFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := mapFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		num := 0
		for _, c := range m[1] {
			num = num*10 + int(c-'0')
		}
		found = append(found, mapFile{name: e.Name(), num: num})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].num < found[j].num })
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names, nil
}

// DiscoverWolfFiles lists the JSON files directly under a Wolf dump
// subdirectory (mps/ or common/), sorted by name.
func DiscoverWolfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ParseFile reads a file and hands its bytes to parse, logging and
// swallowing any error so extraction can continue with the remaining
// files (§4.8: "a failure to parse any one file must be logged and
// swallowed").
func ParseFile[T any](path string, parse func([]byte) (T, error)) (T, bool) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("orchestrator: failed to read file, skipping")
		return zero, false
	}
	result, err := parse(data)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("orchestrator: failed to parse file, skipping")
		return zero, false
	}
	return result, true
}

// RouteByIDPrefix partitions translations by the routing table: the first
// prefix (in iteration order of prefixes) that the translation id starts
// with determines its destination key. Translations matching no prefix are
// returned as unmatched soft errors.
func RouteByIDPrefix(ids []string, prefixes map[string]string) (routed map[string][]string, unmatched []string) {
	routed = make(map[string][]string)
	for _, id := range ids {
		matched := false
		for prefix, dest := range prefixes {
			if strings.HasPrefix(id, prefix) {
				routed[dest] = append(routed[dest], id)
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, id)
		}
	}
	return routed, unmatched
}

// WriteFile writes data to path, preserving the original file's permission
// bits where the file already exists.
func WriteFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode)
}

// RelPath returns path relative to root using forward slashes, matching the
// wolf_json location convention regardless of host OS path separators.
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
