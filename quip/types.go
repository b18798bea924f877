package quip

import "encoding/json"

// The Quip API is not consistent about response shapes: objects arrive either
// wrapped ({"folder": {...}, "children": [...]}) or flat, and display names
// show up as "title" or "name" depending on endpoint vintage.  Everything is
// normalized here, at the decode boundary, so the rest of the codebase only
// ever sees these fixed types.

// User is the response of /users/current.  Quip models the account's
// top-level containers as magic folder IDs hanging off the user object.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	DesktopFolderID string `json:"desktop_folder_id"`
	PrivateFolderID string `json:"private_folder_id"`
	ArchiveFolderID string `json:"archive_folder_id"`
	StarredFolderID string `json:"starred_folder_id"`
	TrashFolderID   string `json:"trash_folder_id"`

	SharedFolderIDs []string `json:"shared_folder_ids"`
	GroupIDs        []string `json:"group_ids"`
}

// Child is one entry of a folder's children list: a reference to either a
// thread (document) or a subfolder.  Exactly one field is non-empty.
type Child struct {
	ThreadID string `json:"thread_id,omitempty"`
	FolderID string `json:"folder_id,omitempty"`
}

// Folder is a normalized /folders/{id} response.
type Folder struct {
	ID       string
	Title    string
	Link     string
	Children []Child
}

type folderFields struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Link  string `json:"link"`
}

func (f *Folder) UnmarshalJSON(b []byte) error {
	var env struct {
		Folder   *folderFields `json:"folder"`
		Children []Child       `json:"children"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	info := env.Folder
	if info == nil {
		// Flat shape: the folder fields live at the top level.
		var flat folderFields
		if err := json.Unmarshal(b, &flat); err != nil {
			return err
		}
		info = &flat
	}

	f.ID = info.ID
	f.Link = info.Link
	f.Children = env.Children

	f.Title = info.Title
	if f.Title == "" {
		f.Title = info.Name
	}
	if f.Title == "" {
		f.Title = info.ID
	}

	return nil
}

// Thread is a normalized /threads/{id} response.  UpdatedUsec is Quip's
// opaque version token; zero means the API didn't provide one.
type Thread struct {
	ID          string
	Title       string
	Link        string
	UpdatedUsec int64
	HTML        string
}

type threadFields struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	URL         string `json:"url"`
	UpdatedUsec int64  `json:"updated_usec"`
	HTML        string `json:"html"`
}

func (t *Thread) UnmarshalJSON(b []byte) error {
	// The HTML body has been observed at the top level or nested under
	// several keys over the years; check them all.
	var env struct {
		HTML     string        `json:"html"`
		Thread   *threadFields `json:"thread"`
		Document *threadFields `json:"document"`
		Content  *threadFields `json:"content"`
		Expanded *threadFields `json:"expanded"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	info := env.Thread
	if info == nil {
		var flat threadFields
		if err := json.Unmarshal(b, &flat); err != nil {
			return err
		}
		info = &flat
	}

	t.ID = info.ID
	t.Title = info.Title
	if t.Title == "" {
		t.Title = info.ID
	}
	t.UpdatedUsec = info.UpdatedUsec

	t.Link = info.Link
	if t.Link == "" {
		t.Link = info.URL
	}

	t.HTML = env.HTML
	for _, node := range []*threadFields{env.Thread, env.Document, env.Content, env.Expanded} {
		if t.HTML != "" {
			break
		}
		if node != nil {
			t.HTML = node.HTML
		}
	}

	return nil
}

// Group is a normalized /groups/{id} response; we only care about the
// group-owned folder.
type Group struct {
	ID       string
	Name     string
	FolderID string
}

type groupFields struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FolderID string `json:"folder_id"`
}

func (g *Group) UnmarshalJSON(b []byte) error {
	var env struct {
		Group *groupFields `json:"group"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	info := env.Group
	if info == nil {
		var flat groupFields
		if err := json.Unmarshal(b, &flat); err != nil {
			return err
		}
		info = &flat
	}

	g.ID = info.ID
	g.Name = info.Name
	g.FolderID = info.FolderID
	return nil
}

// FolderRef is one entry of the accessible-folders enumeration.
type FolderRef struct {
	ID    string
	Title string
}
