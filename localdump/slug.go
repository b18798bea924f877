package localdump

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

const maxSlugLength = 150

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._ \-()\[\]]`)

// Slugify turns a document or folder title into a filesystem-safe name.
// Case and interior spaces are preserved so filenames stay recognisable;
// slashes become dashes, tabs and newlines become spaces, and anything else
// outside the safe set is dropped.  The result is capped at 150 characters
// and never empty.
func Slugify(title string) string {
	s := strings.ReplaceAll(title, "/", "-")
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	s = strings.TrimRight(s, " .")

	if s == "" {
		return "untitled"
	}
	return s
}

// FilenameFromURL derives an asset filename from an image URL: the last path
// segment with query and fragment stripped, slugified.  A URL with no usable
// path falls back to the generic "image".
func FilenameFromURL(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
		if name == "." || name == "/" {
			name = ""
		}
	}

	if strings.TrimSpace(name) == "" {
		return "image"
	}
	return Slugify(name)
}
