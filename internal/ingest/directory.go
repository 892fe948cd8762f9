package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanDirectory walks root and returns every report file in walk order. Hidden files and
// directories are skipped when skipHidden is set. Files whose content hashes to a value
// already seen are returned with Deduplicated set.
func ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]Discovered, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []Discovered
	var stats DirStats
	seen := map[string]struct{}{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, Discovered{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		sum, size, err := hashFile(path)
		if err != nil {
			results = append(results, Discovered{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		_, dup := seen[sum]
		seen[sum] = struct{}{}
		if dup {
			stats.Deduplicated++
		}
		results = append(results, Discovered{Path: path, HashHex: sum, Size: size, Deduplicated: dup})
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
