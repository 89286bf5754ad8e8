package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// RenameSequential renames every image in a directory to a 1-based
// sequential name with an optional prefix, keeping the original extension:
// prefix1.jpg, prefix2.png, ... Files are ordered by their current name.
// A two-phase rename avoids clobbering when old and new names overlap.
// Returns the number of files renamed.
func RenameSequential(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsImageFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	// Phase one: move everything aside under temporary names.
	temps := make([]string, len(files))
	for i, name := range files {
		tmp := fmt.Sprintf(".loraprep-rename-%d%s", i+1, filepath.Ext(name))
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, tmp)); err != nil {
			return 0, fmt.Errorf("failed to rename %s: %w", name, err)
		}
		temps[i] = tmp
	}

	// Phase two: assign the final sequential names.
	for i, tmp := range temps {
		final := fmt.Sprintf("%s%d%s", prefix, i+1, filepath.Ext(tmp))
		if err := os.Rename(filepath.Join(dir, tmp), filepath.Join(dir, final)); err != nil {
			return 0, fmt.Errorf("failed to rename %s to %s: %w", tmp, final, err)
		}
	}

	return len(files), nil
}
