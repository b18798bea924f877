package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/toothbrush/quip-dump/localdump"
	"github.com/toothbrush/quip-dump/quip"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Export Quip folder(s) to Markdown with images",
	Long: `
Export one Quip folder (--folder-id) or every folder you can access (--all) to local Markdown
files.  Images are downloaded next to the documents and a manifest keeps track of what's been
exported, so unchanged documents are skipped on subsequent runs.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLog("  AlwaysDownload: %v\n", AlwaysDownload)
		return runDownload(cmd)
	},
}

var (
	FolderID          string
	All               bool
	NoRecursive       bool
	MaintainStructure bool
	AlwaysDownload    bool
	IncludeArchived   bool
	WithVCR           bool
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&FolderID, "folder-id", "", "folder to export, web shorthand or API ID (falls back to QUIP_FOLDER_ID)")
	downloadCmd.Flags().BoolVar(&All, "all", false, "export all accessible folders")
	downloadCmd.Flags().BoolVar(&NoRecursive, "no-recursive", false, "do not include subfolders")
	downloadCmd.Flags().BoolVar(&MaintainStructure, "maintain-structure", false, "mirror the Quip folder hierarchy in the output")
	downloadCmd.Flags().BoolVarP(&AlwaysDownload, "always-download", "f", false, "always download documents, skipping change detection")
	downloadCmd.Flags().BoolVar(&IncludeArchived, "include-archived", false, "include the archive folder in --all mode")
	downloadCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
}

func runDownload(cmd *cobra.Command) error {
	token, err := resolveToken()
	if err != nil {
		return err
	}

	outDir, err := resolveOutDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("cmd: couldn't create output directory %s: %w", outDir, err)
	}

	api, err := quip.NewAPI(token)
	if err != nil {
		return fmt.Errorf("cmd: Quip API creation failed: %w", err)
	}

	if WithVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/quip-stuff",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
		}

		defer r.Stop() // Make sure recorder is stopped once done with it

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		api.Client = r.GetDefaultClient()
	}

	exporter := &localdump.FolderExporter{
		Source:            api,
		OutDir:            outDir,
		Recursive:         !NoRecursive,
		MaintainStructure: MaintainStructure,
		AlwaysDownload:    AlwaysDownload,
		IncludeArchived:   IncludeArchived,
		Progress:          true,
		Logger:            log.New(os.Stderr, "", 0),
		Throttle:          120 * time.Millisecond,
	}

	if All {
		return exporter.ExportAllFolders(cmd.Context())
	}

	folderID := FolderID
	if folderID == "" {
		folderID = os.Getenv("QUIP_FOLDER_ID")
	}
	if folderID == "" {
		return fmt.Errorf("cmd: no folder to export; set QUIP_FOLDER_ID, pass --folder-id, or use --all")
	}

	if _, err := exporter.ExportFolder(cmd.Context(), folderID); err != nil {
		return fmt.Errorf("cmd: Quip export failed: %w", err)
	}

	return nil
}
