package localdump

import (
	"context"
	"sort"
	"strings"
)

// folderInfo records what we learned about a folder during the walk: its
// display name and the folder we reached it through.  parent is "" for the
// walk root.
type folderInfo struct {
	name   string
	parent string
}

// ListFolderThreads walks the folder tree breadth-first from rootID and
// returns descriptors for every document found.  A visited-set guards
// against folders reachable via multiple parents.  Folders or threads that
// fail to retrieve are logged and skipped; they never abort the walk.
//
// The result is sorted by (folder path, lowercased title, id) when trackPath
// is set, else (lowercased title, id), so repeated walks of an unchanged
// tree produce identical output.
func (ex *FolderExporter) ListFolderThreads(ctx context.Context, rootID string, recursive bool, trackPath bool) ([]ThreadMeta, error) {
	type queueItem struct {
		id     string
		parent string
	}

	info := map[string]folderInfo{}
	queue := []queueItem{{id: rootID}}
	seenFolders := map[string]bool{}
	seenThreads := map[ThreadID]bool{}
	out := []ThreadMeta{}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if seenFolders[item.id] {
			continue
		}
		seenFolders[item.id] = true

		folder, err := ex.Source.GetFolder(ctx, item.id)
		ex.throttle()
		if err != nil {
			ex.Logger.Printf("[warn] could not access folder %s: %v\n", item.id, err)
			continue
		}
		info[item.id] = folderInfo{name: folder.Title, parent: item.parent}

		for _, child := range folder.Children {
			switch {
			case child.ThreadID != "":
				thread, err := ex.Source.GetThread(ctx, child.ThreadID)
				ex.throttle()
				if err != nil {
					ex.Logger.Printf("[warn] could not fetch thread %s: %v\n", child.ThreadID, err)
					continue
				}
				if seenThreads[ThreadID(thread.ID)] {
					continue
				}
				seenThreads[ThreadID(thread.ID)] = true

				meta := ThreadMeta{
					ID:          ThreadID(thread.ID),
					Title:       thread.Title,
					UpdatedUsec: thread.UpdatedUsec,
					URL:         thread.Link,
				}
				if trackPath {
					p := buildFolderPath(item.id, rootID, info)
					meta.FolderPath = &p
				}
				out = append(out, meta)

			case child.FolderID != "" && recursive:
				queue = append(queue, queueItem{id: child.FolderID, parent: item.id})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if trackPath {
			ap, bp := derefPath(a.FolderPath), derefPath(b.FolderPath)
			if ap != bp {
				return ap < bp
			}
		}
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})

	return out, nil
}

// buildFolderPath reconstructs the slugified path from the walk root to the
// given folder by following the parent chain.  An ancestor missing from the
// map (shouldn't happen given BFS order) truncates the path there rather
// than failing.
func buildFolderPath(folderID string, rootID string, info map[string]folderInfo) string {
	if folderID == rootID {
		return ""
	}

	parts := []string{}
	for id := folderID; id != "" && id != rootID; {
		entry, ok := info[id]
		if !ok {
			break
		}
		parts = append(parts, Slugify(entry.name))
		id = entry.parent
	}

	// collected leaf-first; flip to root->leaf
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "/")
}

func derefPath(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
