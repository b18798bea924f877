package localdump

// ThreadID is a Quip thread (document) identifier.
type ThreadID string

// ThreadMeta is what the folder walk learns about a document before its body
// is fetched: enough to decide whether an export is needed and where the
// output goes.
type ThreadMeta struct {
	ID          ThreadID
	Title       string
	UpdatedUsec int64
	URL         string

	// FolderPath is the slash-joined slugified path from the walk root to
	// the document's folder; nil when path tracking is off, empty string for
	// documents directly under the root.
	FolderPath *string
}

// ManifestEntry records one exported document.  UpdatedKey is the version
// token when the API provided one, else a sha256 hex digest of the exported
// content.
type ManifestEntry struct {
	Title        string   `json:"title"`
	Filename     string   `json:"filename"`
	UpdatedKey   string   `json:"updated_key"`
	LastExported int64    `json:"last_exported"`
	Images       []string `json:"images"`
	FolderPath   string   `json:"folder_path,omitempty"`
}

// Manifest is a folder's export state, keyed by thread ID.  It lives as
// manifest.json at the folder's export root.
type Manifest map[ThreadID]ManifestEntry
