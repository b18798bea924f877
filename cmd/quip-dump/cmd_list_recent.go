package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/quip-dump/quip"
	"golang.org/x/exp/maps"
)

var listRecentUsage = strings.TrimSpace(`
Print your most recently updated Quip documents, newest first.  Handy for checking whether a
document you just edited will be picked up by the next download run.
`)

var listRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print recently updated documents",
	Long:  listRecentUsage,
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

		threads, err := api.GetRecentThreads(ctx, quip.RecentThreadsQuery{
			Count: RecentCount,
		})
		if err != nil {
			return fmt.Errorf("list: couldn't list recent threads: %w", err)
		}

		ids := maps.Keys(threads)
		sort.Slice(ids, func(i, j int) bool {
			a, b := threads[ids[i]], threads[ids[j]]
			if a.UpdatedUsec != b.UpdatedUsec {
				return a.UpdatedUsec > b.UpdatedUsec
			}
			return ids[i] < ids[j]
		})

		fmt.Printf("recent:\n")
		for _, id := range ids {
			fmt.Printf("  - %s: %s\n", id, threads[id].Title)
		}

		return nil
	},
}

var RecentCount int

func init() {
	listCmd.AddCommand(listRecentCmd)

	listRecentCmd.Flags().IntVar(&RecentCount, "count", 10, "number of recent documents to list")
}
