package localdump

import (
	"context"
	"fmt"

	"github.com/toothbrush/quip-dump/quip"
)

// fakeSource is an in-memory ContentSource backed by a synthetic folder
// tree.  It records thread fetches so tests can assert that unchanged
// documents aren't re-fetched.
type fakeSource struct {
	folders map[string]*quip.Folder
	threads map[string]*quip.Thread
	blobs   map[string][]byte

	folderErrs map[string]error
	threadErrs map[string]error
	blobErrs   map[string]error

	accessible    []quip.FolderRef
	accessibleErr error

	threadFetches map[string]int
}

func (f *fakeSource) GetFolder(ctx context.Context, id string) (*quip.Folder, error) {
	if err := f.folderErrs[id]; err != nil {
		return nil, err
	}
	folder, ok := f.folders[id]
	if !ok {
		return nil, fmt.Errorf("fake: no such folder %s", id)
	}
	return folder, nil
}

func (f *fakeSource) GetThread(ctx context.Context, id string) (*quip.Thread, error) {
	if f.threadFetches == nil {
		f.threadFetches = map[string]int{}
	}
	f.threadFetches[id]++

	if err := f.threadErrs[id]; err != nil {
		return nil, err
	}
	thread, ok := f.threads[id]
	if !ok {
		return nil, fmt.Errorf("fake: no such thread %s", id)
	}
	return thread, nil
}

func (f *fakeSource) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if err := f.blobErrs[url]; err != nil {
		return nil, err
	}
	blob, ok := f.blobs[url]
	if !ok {
		return nil, fmt.Errorf("fake: no such blob %s", url)
	}
	return blob, nil
}

func (f *fakeSource) ListAccessibleFolders(ctx context.Context, includeArchived bool) ([]quip.FolderRef, error) {
	if f.accessibleErr != nil {
		return nil, f.accessibleErr
	}
	return f.accessible, nil
}
