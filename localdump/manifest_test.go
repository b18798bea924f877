package localdump

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifestAbsent(t *testing.T) {
	m := LoadManifest(filepath.Join(t.TempDir(), "manifest.json"))
	if len(m) != 0 {
		t.Errorf("expected empty manifest for absent file, got %d entries", len(m))
	}
}

func TestLoadManifestCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m := LoadManifest(path)
	if len(m) != 0 {
		t.Errorf("expected empty manifest for corrupt file, got %d entries", len(m))
	}
}

func TestSaveManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	manifest := Manifest{
		"Tbbb": {Title: "Second", Filename: "Second - Tbbb.md", UpdatedKey: "2", LastExported: 20, Images: []string{}},
		"Taaa": {Title: "First", Filename: "First - Taaa.md", UpdatedKey: "1", LastExported: 10, Images: []string{"_assets/Taaa/chart.png"}},
	}

	if err := SaveManifest(path, manifest); err != nil {
		t.Fatal(err)
	}

	loaded := LoadManifest(path)
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded["Taaa"].Filename != "First - Taaa.md" {
		t.Errorf("entry Taaa = %+v", loaded["Taaa"])
	}
	if len(loaded["Taaa"].Images) != 1 || loaded["Taaa"].Images[0] != "_assets/Taaa/chart.png" {
		t.Errorf("entry Taaa images = %v", loaded["Taaa"].Images)
	}
}

func TestSaveManifestDeterministic(t *testing.T) {
	dir := t.TempDir()
	manifest := Manifest{
		"Tzzz": {Title: "z", UpdatedKey: "3"},
		"Taaa": {Title: "a", UpdatedKey: "1"},
		"Tmmm": {Title: "m", UpdatedKey: "2"},
	}

	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	if err := SaveManifest(pathA, manifest); err != nil {
		t.Fatal(err)
	}
	if err := SaveManifest(pathB, manifest); err != nil {
		t.Fatal(err)
	}

	a, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two saves of the same manifest produced different bytes")
	}
}

// A crash between temp-file write and rename must leave the previous
// manifest intact and parseable.
func TestManifestSurvivesTornWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	manifest := Manifest{"Taaa": {Title: "First", UpdatedKey: "1"}}
	if err := SaveManifest(path, manifest); err != nil {
		t.Fatal(err)
	}

	// Simulate a crash: a half-written temp file that never got renamed.
	if err := os.WriteFile(path+".tmp", []byte(`{"Taaa": {"tit`), 0644); err != nil {
		t.Fatal(err)
	}

	loaded := LoadManifest(path)
	if len(loaded) != 1 || loaded["Taaa"].UpdatedKey != "1" {
		t.Errorf("previous manifest not intact after torn write: %+v", loaded)
	}
}
