package quip

import (
	"context"
	"fmt"
	"time"
)

// Delay inserted after each enumeration call, to stay under Quip's implicit
// rate limit.
const enumerationThrottle = 120 * time.Millisecond

// ListAccessibleFolders enumerates the caller's top-level folders: the
// desktop (main workspace), the private folder, folders shared with the
// caller, and group-owned folders.  Trash and starred are never included;
// the archive only when asked for.  A folder that fails to resolve is
// silently skipped -- the caller may simply lack access.
func (api *API) ListAccessibleFolders(ctx context.Context, includeArchived bool) ([]FolderRef, error) {
	user, err := api.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't query current user: %w", err)
	}

	skip := map[string]bool{
		user.TrashFolderID:   true,
		user.StarredFolderID: true,
	}
	if !includeArchived {
		skip[user.ArchiveFolderID] = true
	}

	folders := []FolderRef{}
	seen := map[string]bool{}

	appendFolder := func(id string, fallbackTitle string) {
		if id == "" || skip[id] || seen[id] {
			return
		}
		seen[id] = true

		ref := FolderRef{ID: id, Title: fallbackTitle}
		if folder, err := api.GetFolder(ctx, id); err == nil {
			ref.ID = folder.ID
			// Folder normalization degrades a nameless folder's title to
			// its ID; prefer our fallback name in that case.
			if folder.Title != folder.ID || ref.Title == "" {
				ref.Title = folder.Title
			}
		}
		if ref.Title == "" {
			ref.Title = id
		}
		folders = append(folders, ref)
		api.sleep(enumerationThrottle)
	}

	appendFolder(user.DesktopFolderID, "Desktop")
	appendFolder(user.PrivateFolderID, "Private")
	if includeArchived {
		appendFolder(user.ArchiveFolderID, "Archive")
	}
	for _, id := range user.SharedFolderIDs {
		appendFolder(id, "")
	}
	for _, groupID := range user.GroupIDs {
		group, err := api.GetGroup(ctx, groupID)
		api.sleep(enumerationThrottle)
		if err != nil {
			continue
		}
		appendFolder(group.FolderID, group.Name)
	}

	return folders, nil
}
