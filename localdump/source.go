package localdump

import (
	"context"

	"github.com/toothbrush/quip-dump/quip"
)

// ContentSource is the slice of the Quip API the exporter needs.  Tests
// substitute an in-memory implementation.
type ContentSource interface {
	GetFolder(ctx context.Context, id string) (*quip.Folder, error)
	GetThread(ctx context.Context, id string) (*quip.Thread, error)
	GetBytes(ctx context.Context, url string) ([]byte, error)
	ListAccessibleFolders(ctx context.Context, includeArchived bool) ([]quip.FolderRef, error)
}

var _ ContentSource = (*quip.API)(nil)
