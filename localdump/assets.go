package localdump

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RelocateImages downloads or decodes every image referenced by the given
// HTML, writes each one under assetsDir, and rewrites its src to a path
// relative to relativeBase -- the directory the eventual Markdown file lives
// in, which is not necessarily the assets directory's parent once folder
// nesting is in play.
//
// An image that cannot be retrieved is replaced in-place with a visible
// placeholder carrying its alt text and original source, so the failure is
// legible in the rendered output instead of a silently broken link.  Failed
// images are absent from the returned list of written paths.
//
// Filename collisions within one assets directory are last-write-wins;
// uniqueness comes from the one-directory-per-thread layout.
func (ex *FolderExporter) RelocateImages(ctx context.Context, rawHTML string, assetsDir string, relativeBase string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", nil, fmt.Errorf("localdump: couldn't parse HTML: %w", err)
	}

	written := []string{}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			return
		}

		var data []byte
		var filename string

		if strings.HasPrefix(src, "data:") {
			decoded, name, err := decodeDataURL(src)
			if err != nil {
				replaceWithPlaceholder(img, src)
				return
			}
			data, filename = decoded, name
		} else {
			fetched, err := ex.Source.GetBytes(ctx, src)
			if err != nil {
				replaceWithPlaceholder(img, src)
				return
			}
			data, filename = fetched, FilenameFromURL(src)
		}

		dest := filepath.Join(assetsDir, filename)
		if err := WriteFileAtomic(dest, data); err != nil {
			replaceWithPlaceholder(img, src)
			return
		}

		rel, err := filepath.Rel(relativeBase, dest)
		if err != nil {
			// relativeBase and assetsDir share the export root, so this
			// shouldn't happen; fall back to the absolute path.
			rel = dest
		}
		img.SetAttr("src", filepath.ToSlash(rel))
		written = append(written, dest)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("localdump: couldn't serialise HTML: %w", err)
	}

	return out, written, nil
}

// decodeDataURL decodes an inline base64 image.  Quip only embeds PNGs and
// JPEGs; anything that doesn't declare image/png is treated as a JPEG.
func decodeDataURL(src string) ([]byte, string, error) {
	header, b64, found := strings.Cut(src, ",")
	if !found {
		return nil, "", fmt.Errorf("localdump: malformed data URL")
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, "", fmt.Errorf("localdump: couldn't decode inline image: %w", err)
	}

	ext := "jpg"
	if strings.Contains(header, "image/png") {
		ext = "png"
	}

	return data, "embedded." + ext, nil
}

func replaceWithPlaceholder(img *goquery.Selection, src string) {
	alt := img.AttrOr("alt", "image")
	marker := fmt.Sprintf("[image unavailable: %s (%s)]", alt, src)
	img.ReplaceWithHtml("<em>" + html.EscapeString(marker) + "</em>")
}
