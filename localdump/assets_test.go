package localdump

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRelocateImagesRemote(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		blobs: map[string][]byte{
			"https://quip.com/blob/Tabc/chart.png": []byte("png-bytes"),
		},
	}
	ex := newTestExporter(source, dir)

	assetsDir := filepath.Join(dir, "_assets", "Tabc")
	htmlIn := `<p>hi</p><img src="https://quip.com/blob/Tabc/chart.png" alt="a chart"/>`

	out, written, err := ex.RelocateImages(context.Background(), htmlIn, assetsDir, dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(written) != 1 {
		t.Fatalf("written = %v, want one asset", written)
	}
	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("asset content = %q", data)
	}
	if !strings.Contains(out, `src="_assets/Tabc/chart.png"`) {
		t.Errorf("src not rewritten to relative path: %s", out)
	}
}

func TestRelocateImagesDataURL(t *testing.T) {
	dir := t.TempDir()
	ex := newTestExporter(&fakeSource{}, dir)

	payload := base64.StdEncoding.EncodeToString([]byte("inline-png"))
	htmlIn := `<img src="data:image/png;base64,` + payload + `"/>`
	assetsDir := filepath.Join(dir, "_assets", "Tdef")

	out, written, err := ex.RelocateImages(context.Background(), htmlIn, assetsDir, dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(written) != 1 || filepath.Base(written[0]) != "embedded.png" {
		t.Fatalf("written = %v, want embedded.png", written)
	}
	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "inline-png" {
		t.Errorf("decoded content = %q", data)
	}
	if !strings.Contains(out, `src="_assets/Tdef/embedded.png"`) {
		t.Errorf("src not rewritten: %s", out)
	}
}

func TestRelocateImagesFetchFailurePlaceholder(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		blobErrs: map[string]error{
			"https://quip.com/blob/Tabc/gone.png": errors.New("HTTP 404"),
		},
	}
	ex := newTestExporter(source, dir)

	htmlIn := `<img src="https://quip.com/blob/Tabc/gone.png" alt="quarterly numbers"/>`
	out, written, err := ex.RelocateImages(context.Background(), htmlIn, filepath.Join(dir, "_assets", "Tabc"), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(written) != 0 {
		t.Errorf("failed image counted as written: %v", written)
	}
	if strings.Contains(out, "<img") {
		t.Errorf("broken img tag left in output: %s", out)
	}
	if !strings.Contains(out, "quarterly numbers") || !strings.Contains(out, "gone.png") {
		t.Errorf("placeholder missing alt text or source: %s", out)
	}
}

func TestRelocateImagesBadDataURLPlaceholder(t *testing.T) {
	dir := t.TempDir()
	ex := newTestExporter(&fakeSource{}, dir)

	htmlIn := `<img src="data:image/png;base64,%%%not-base64" alt="diagram"/>`
	out, written, err := ex.RelocateImages(context.Background(), htmlIn, filepath.Join(dir, "_assets", "T1"), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(written) != 0 {
		t.Errorf("undecodable image counted as written: %v", written)
	}
	if !strings.Contains(out, "image unavailable") || !strings.Contains(out, "diagram") {
		t.Errorf("placeholder missing: %s", out)
	}
}

// A document nested one level below the folder root should get srcs that
// climb back up to the shared assets directory.
func TestRelocateImagesNestedRelativeBase(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		blobs: map[string][]byte{"https://q/img.png": []byte("x")},
	}
	ex := newTestExporter(source, dir)

	assetsDir := filepath.Join(dir, "_assets", "Tabc")
	docDir := filepath.Join(dir, "Docs  Stuff")

	out, _, err := ex.RelocateImages(context.Background(), `<img src="https://q/img.png"/>`, assetsDir, docDir)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `src="../_assets/Tabc/img.png"`) {
		t.Errorf("nested src not relative to document dir: %s", out)
	}
}

func TestRelocateImagesNoImages(t *testing.T) {
	ex := newTestExporter(&fakeSource{}, t.TempDir())

	out, written, err := ex.RelocateImages(context.Background(), "<h1>Title</h1><p>text</p>", filepath.Join(t.TempDir(), "_assets", "T1"), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 0 {
		t.Errorf("written = %v, want none", written)
	}
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Errorf("content mangled: %s", out)
	}
}
