package localdump

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestFilename is the per-folder manifest file, living at the folder's
// export root next to the Markdown files.
const ManifestFilename = "manifest.json"

// LoadManifest reads a manifest file.  An absent or unparseable file yields
// an empty manifest -- a corrupt manifest just means we re-export everything,
// it is never a reason to abort.
func LoadManifest(path string) Manifest {
	source, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}
	}

	manifest := Manifest{}
	if err := json.Unmarshal(source, &manifest); err != nil {
		return Manifest{}
	}

	return manifest
}

// SaveManifest writes the manifest atomically.  encoding/json emits map keys
// in sorted order, which keeps re-exports diff-friendly under version
// control.
func SaveManifest(path string, manifest Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("localdump: couldn't marshal manifest: %w", err)
	}

	if err := WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("localdump: couldn't save manifest %s: %w", path, err)
	}

	return nil
}
