package localdump

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/toothbrush/quip-dump/quip"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// AssetsDirName is the per-folder directory holding every thread's images,
// one subdirectory per thread ID.  Assets are centralised here regardless of
// folder-structure nesting, so a thread moving between folders never
// duplicates its images.
const AssetsDirName = "_assets"

// FolderExporter exports one or more Quip folders to local Markdown.  It
// holds no global state: each ExportFolder call loads, mutates and saves its
// own manifest, so folder exports in one run stay independent.
type FolderExporter struct {
	Source            ContentSource
	OutDir            string
	Recursive         bool
	MaintainStructure bool

	// AlwaysDownload bypasses the manifest's change detection and
	// re-exports everything.
	AlwaysDownload  bool
	IncludeArchived bool

	// Progress renders an mpb progress bar over the document list; leave
	// it off for machine consumption of the log.
	Progress bool

	Logger *log.Logger

	// Throttle is slept after each enumeration/fetch call, to stay under
	// Quip's implicit rate limit.
	Throttle time.Duration

	// Now is a clock hook for tests; nil means time.Now.
	Now func() time.Time
}

func (ex *FolderExporter) now() time.Time {
	if ex.Now != nil {
		return ex.Now()
	}
	return time.Now()
}

func (ex *FolderExporter) throttle() {
	if ex.Throttle > 0 {
		time.Sleep(ex.Throttle)
	}
}

// ThreadOutcome is the terminal state of one document's export attempt.
// There are no retries across documents within a run; network-level retries
// happen inside the Gateway, per request.
type ThreadOutcome int

const (
	ThreadExported ThreadOutcome = iota
	SkippedUnchanged
	SkippedNoContent
	ThreadFailed
)

func (o ThreadOutcome) String() string {
	switch o {
	case ThreadExported:
		return "exported"
	case SkippedUnchanged:
		return "skipped (unchanged)"
	case SkippedNoContent:
		return "skipped (no content)"
	default:
		return "failed"
	}
}

// ThreadResult is the explicit per-document result variant the orchestration
// loop switches on; failure is data here, not a propagated error.
type ThreadResult struct {
	Outcome    ThreadOutcome
	OutputPath string   // relative to the folder's export root
	Assets     []string // written asset paths, absolute
	Err        error    // set for SkippedNoContent / ThreadFailed
}

// ExportSummary is the per-folder tally reported at the end of a run.  It
// never affects control flow.
type ExportSummary struct {
	FolderID    string
	FolderTitle string
	Exported    int
	Skipped     int
	Errors      int
}

// ExportFolder exports a single folder (given by web-shorthand or API ID)
// under ex.OutDir.  Per-document failures are isolated: they are logged,
// counted, and the run moves on.  Only manifest/output I/O errors unrelated
// to a single document are returned.
func (ex *FolderExporter) ExportFolder(ctx context.Context, folderInput string) (*ExportSummary, error) {
	folderID, folderTitle := ex.resolveFolder(ctx, folderInput)
	ex.Logger.Printf("Exporting folder '%s' (%s)\n", folderTitle, folderID)

	folderDir := filepath.Join(ex.OutDir, Slugify(folderTitle))
	if err := os.MkdirAll(folderDir, 0750); err != nil {
		return nil, fmt.Errorf("localdump: couldn't create export dir %s: %w", folderDir, err)
	}

	manifestPath := filepath.Join(folderDir, ManifestFilename)
	manifest := LoadManifest(manifestPath)

	threads, err := ex.ListFolderThreads(ctx, folderID, ex.Recursive, ex.MaintainStructure)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't list folder threads: %w", err)
	}

	summary := &ExportSummary{FolderID: folderID, FolderTitle: folderTitle}

	if len(threads) == 0 {
		ex.Logger.Println("No documents found.")
		return summary, nil
	}
	ex.Logger.Printf("Found %d documents\n", len(threads))

	var bar *mpb.Bar
	var progress *mpb.Progress
	if ex.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(threads)),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("%s:", folderTitle),
					decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}

	for _, t := range threads {
		result := ex.exportThread(ctx, t, folderDir, manifest)

		switch result.Outcome {
		case SkippedUnchanged:
			ex.Logger.Printf("[skip] unchanged: %s\n", t.Title)
			summary.Skipped++
		case SkippedNoContent:
			ex.Logger.Printf("[skip] no content for %s (%s): %v\n", t.ID, t.Title, result.Err)
			summary.Skipped++
		case ThreadExported:
			ex.Logger.Printf("[ok] %s (%d image(s))\n", result.OutputPath, len(result.Assets))
			summary.Exported++
		case ThreadFailed:
			ex.Logger.Printf("[error] %s (%s): %v\n", t.ID, t.Title, result.Err)
			summary.Errors++
		}

		if bar != nil {
			bar.Increment()
		}
	}

	if progress != nil {
		progress.Wait()
	}

	if err := SaveManifest(manifestPath, manifest); err != nil {
		return summary, fmt.Errorf("localdump: couldn't persist manifest: %w", err)
	}

	ex.Logger.Printf("Done. Exported: %d, Skipped: %d, Errors: %d\n",
		summary.Exported, summary.Skipped, summary.Errors)
	ex.Logger.Printf("Output: %s\n", folderDir)

	return summary, nil
}

// ExportAllFolders runs ExportFolder for every accessible top-level folder.
// One folder's failure doesn't abort the rest.
func (ex *FolderExporter) ExportAllFolders(ctx context.Context) error {
	ex.Logger.Println("Fetching all accessible folders...")
	folders, err := ex.Source.ListAccessibleFolders(ctx, ex.IncludeArchived)
	if err != nil {
		return fmt.Errorf("localdump: couldn't enumerate folders: %w", err)
	}

	if len(folders) == 0 {
		ex.Logger.Println("No folders found or unable to access folders.")
		return nil
	}

	ex.Logger.Printf("Found %d top-level folder(s):\n", len(folders))
	for _, folder := range folders {
		ex.Logger.Printf("  - %s (%s)\n", folder.Title, folder.ID)
	}

	for i, folder := range folders {
		ex.Logger.Printf("[%d/%d] Exporting folder: %s\n", i+1, len(folders), folder.Title)
		if _, err := ex.ExportFolder(ctx, folder.ID); err != nil {
			ex.Logger.Printf("[error] exporting folder %s: %v\n", folder.Title, err)
			continue
		}
	}

	return nil
}

// resolveFolder turns a folder ID of either flavour (web shorthand or API
// ID) into the canonical ID plus display name, falling back to the raw input
// if the folder can't be fetched.
func (ex *FolderExporter) resolveFolder(ctx context.Context, folderInput string) (id string, title string) {
	folder, err := ex.Source.GetFolder(ctx, folderInput)
	ex.throttle()
	if err != nil {
		ex.Logger.Printf("[warn] could not resolve folder %s: %v\n", folderInput, err)
		return folderInput, folderInput
	}

	id = folder.ID
	if id == "" {
		id = folderInput
	}
	return id, folder.Title
}

// exportThread drives one document through the
// PENDING → (SKIPPED_UNCHANGED | SKIPPED_NO_CONTENT | EXPORTED | FAILED)
// state machine.  On failure the manifest entry is left untouched, so the
// next run retries the document.
func (ex *FolderExporter) exportThread(ctx context.Context, t ThreadMeta, folderDir string, manifest Manifest) ThreadResult {
	// Cheap skip: the version token from the folder listing matches what we
	// exported last time, so don't even fetch the body.  Note this trusts
	// the token entirely; a token-bearing thread is never re-validated by
	// content hash.
	if t.UpdatedUsec != 0 && !ex.AlwaysDownload {
		if prev, ok := manifest[t.ID]; ok && prev.UpdatedKey == versionKey(t.UpdatedUsec) {
			return ThreadResult{Outcome: SkippedUnchanged}
		}
	}

	thread, err := ex.Source.GetThread(ctx, string(t.ID))
	ex.throttle()
	if err != nil {
		return ThreadResult{Outcome: SkippedNoContent, Err: err}
	}
	if thread.HTML == "" {
		return ThreadResult{Outcome: SkippedNoContent, Err: quip.ErrNoContent}
	}

	// Effective change key: version token if we have one, else a hash of
	// the fetched content (second-chance dedup for tokenless threads).
	changeKey := versionKey(t.UpdatedUsec)
	if changeKey == "" {
		sum := sha256.Sum256([]byte(thread.HTML))
		changeKey = hex.EncodeToString(sum[:])
		if prev, ok := manifest[t.ID]; ok && prev.UpdatedKey == changeKey && !ex.AlwaysDownload {
			return ThreadResult{Outcome: SkippedUnchanged}
		}
	}

	docDir := folderDir
	if ex.MaintainStructure && t.FolderPath != nil && *t.FolderPath != "" {
		docDir = filepath.Join(folderDir, filepath.FromSlash(*t.FolderPath))
	}
	mdPath := filepath.Join(docDir, fmt.Sprintf("%s - %s.md", Slugify(t.Title), t.ID))
	assetsDir := filepath.Join(folderDir, AssetsDirName, string(t.ID))

	rewritten, written, err := ex.RelocateImages(ctx, thread.HTML, assetsDir, docDir)
	if err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: err}
	}

	body, err := HTMLToMarkdown(rewritten)
	if err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: err}
	}

	relAssets, err := filepath.Rel(docDir, assetsDir)
	if err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: fmt.Errorf("localdump: couldn't relativise assets dir: %w", err)}
	}

	header := FrontMatter{
		Title:      t.Title,
		ThreadID:   string(t.ID),
		QuipURL:    t.URL,
		ExportedAt: ex.now().Unix(),
		AssetsDir:  filepath.ToSlash(relAssets),
		FolderPath: derefPath(t.FolderPath),
	}
	if header.QuipURL == "" {
		header.QuipURL = fmt.Sprintf("https://quip.com/%s", t.ID)
	}
	if t.UpdatedUsec != 0 {
		usec := t.UpdatedUsec
		header.UpdatedUsec = &usec
	}

	document, err := renderDocument(header, body)
	if err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: err}
	}

	if err := WriteFileAtomic(mdPath, []byte(document)); err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: err}
	}

	relOutput, err := filepath.Rel(folderDir, mdPath)
	if err != nil {
		return ThreadResult{Outcome: ThreadFailed, Err: fmt.Errorf("localdump: couldn't relativise output path: %w", err)}
	}

	entry := ManifestEntry{
		Title:        t.Title,
		Filename:     filepath.ToSlash(relOutput),
		UpdatedKey:   changeKey,
		LastExported: ex.now().Unix(),
		Images:       []string{},
		FolderPath:   derefPath(t.FolderPath),
	}
	for _, asset := range written {
		if rel, err := filepath.Rel(folderDir, asset); err == nil {
			entry.Images = append(entry.Images, filepath.ToSlash(rel))
		}
	}
	manifest[t.ID] = entry

	return ThreadResult{Outcome: ThreadExported, OutputPath: entry.Filename, Assets: written}
}

func versionKey(updatedUsec int64) string {
	if updatedUsec == 0 {
		return ""
	}
	return strconv.FormatInt(updatedUsec, 10)
}
