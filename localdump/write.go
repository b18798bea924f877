package localdump

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a sibling temp file and renames it into
// place, so a crash mid-write never leaves a torn file behind.  Parent
// directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("localdump: couldn't write temp file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		// best-effort cleanup; the rename error is the interesting one
		os.Remove(tmp)
		return fmt.Errorf("localdump: couldn't move %s into place: %w", tmp, err)
	}

	return nil
}
