package quip

import (
	"encoding/json"
	"testing"
)

// Quip returns objects wrapped or flat depending on the endpoint; the decode
// layer must normalize both, plus the title/name split.
func TestFolderUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Folder
	}{
		{
			"wrapped with children",
			`{"folder": {"id": "F1", "title": "Team"}, "children": [{"thread_id": "T1"}, {"folder_id": "F2"}]}`,
			Folder{ID: "F1", Title: "Team", Children: []Child{{ThreadID: "T1"}, {FolderID: "F2"}}},
		},
		{
			"flat",
			`{"id": "F1", "title": "Team"}`,
			Folder{ID: "F1", Title: "Team"},
		},
		{
			"name instead of title",
			`{"folder": {"id": "F1", "name": "Group stuff"}}`,
			Folder{ID: "F1", Title: "Group stuff"},
		},
		{
			"nameless degrades to id",
			`{"folder": {"id": "F1"}}`,
			Folder{ID: "F1", Title: "F1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Folder
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatal(err)
			}
			if got.ID != tt.want.ID || got.Title != tt.want.Title {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(got.Children) != len(tt.want.Children) {
				t.Fatalf("children = %v, want %v", got.Children, tt.want.Children)
			}
			for i := range got.Children {
				if got.Children[i] != tt.want.Children[i] {
					t.Errorf("children[%d] = %+v, want %+v", i, got.Children[i], tt.want.Children[i])
				}
			}
		})
	}
}

func TestThreadUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Thread
	}{
		{
			"wrapped, html at top level",
			`{"thread": {"id": "T1", "title": "Doc", "link": "https://quip.com/T1", "updated_usec": 7}, "html": "<p>a</p>"}`,
			Thread{ID: "T1", Title: "Doc", Link: "https://quip.com/T1", UpdatedUsec: 7, HTML: "<p>a</p>"},
		},
		{
			"wrapped, html inside thread",
			`{"thread": {"id": "T1", "title": "Doc", "html": "<p>b</p>"}}`,
			Thread{ID: "T1", Title: "Doc", HTML: "<p>b</p>"},
		},
		{
			"html under document",
			`{"thread": {"id": "T1", "title": "Doc"}, "document": {"html": "<p>c</p>"}}`,
			Thread{ID: "T1", Title: "Doc", HTML: "<p>c</p>"},
		},
		{
			"flat",
			`{"id": "T1", "title": "Doc", "url": "https://quip.com/T1", "html": "<p>d</p>"}`,
			Thread{ID: "T1", Title: "Doc", Link: "https://quip.com/T1", HTML: "<p>d</p>"},
		},
		{
			"untitled degrades to id",
			`{"thread": {"id": "T1"}}`,
			Thread{ID: "T1", Title: "T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Thread
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGroupUnmarshalShapes(t *testing.T) {
	for _, in := range []string{
		`{"group": {"id": "G1", "name": "Platform", "folder_id": "F9"}}`,
		`{"id": "G1", "name": "Platform", "folder_id": "F9"}`,
	} {
		var got Group
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatal(err)
		}
		if got.ID != "G1" || got.Name != "Platform" || got.FolderID != "F9" {
			t.Errorf("group from %s = %+v", in, got)
		}
	}
}
