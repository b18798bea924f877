package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/quip-dump/internal/termfmt"
	"github.com/toothbrush/quip-dump/quip"
)

var listFoldersUsage = strings.TrimSpace(`
If you want to find out which folders your Quip account can see (and their IDs, for --folder-id),
use this command.
`)

var listFoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Print list of accessible folders",
	Long:  listFoldersUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		token, err := resolveToken()
		if err != nil {
			return err
		}

		api, err := quip.NewAPI(token)
		if err != nil {
			return fmt.Errorf("list: couldn't instantiate Quip API: %w", err)
		}

		log.Println("Listing accessible Quip folders...")
		folders, err := api.ListAccessibleFolders(ctx, ListIncludeArchived)
		if err != nil {
			return fmt.Errorf("list: couldn't list Quip folders: %w", err)
		}

		log.Printf("Found %d top-level folders.\n", len(folders))

		sort.Slice(folders, func(i, j int) bool {
			if folders[i].Title != folders[j].Title {
				return folders[i].Title < folders[j].Title
			}
			return folders[i].ID < folders[j].ID
		})

		fmt.Printf("folders:\n")
		for _, folder := range folders {
			fmt.Printf("  - %s: %v\n", folder.ID, termfmt.Bold().V(folder.Title))
		}

		return nil
	},
}

var ListIncludeArchived bool

func init() {
	listCmd.AddCommand(listFoldersCmd)

	listFoldersCmd.Flags().BoolVar(&ListIncludeArchived, "include-archived", false, "include the archive folder")
}
