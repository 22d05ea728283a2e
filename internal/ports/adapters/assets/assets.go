// Package assets reads the on-disk asset catalog: one directory per
// category, each holding media files effects may draw from.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forPelevin/ytpgen/internal/types"
)

// EnsureDirs creates root and every category directory below it.
func EnsureDirs(root string) error {
	for _, cat := range types.AssetCategories {
		if err := os.MkdirAll(filepath.Join(root, cat), 0o755); err != nil {
			return fmt.Errorf("create asset dir %s: %w", cat, err)
		}
	}
	return nil
}

// List snapshots the regular files of every category. Missing category
// directories yield empty lists.
func List(root string) (types.Catalog, error) {
	cat := make(types.Catalog, len(types.AssetCategories))
	for _, c := range types.AssetCategories {
		dir := filepath.Join(root, c)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			cat[c] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list assets %s: %w", c, err)
		}
		var files []string
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			files = append(files, filepath.Join(dir, e.Name()))
		}
		sort.Strings(files)
		cat[c] = files
	}
	return cat, nil
}
