package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/ewilliams-labs/trackmap/internal/core/services"
)

func newMapTracksCommand(ctx *commandContext) *cobra.Command {
	var (
		songIDs        []int64
		limit          int
		onlyFailed     bool
		force          bool
		deleteExisting bool
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "map-tracks",
		Short: "Search the catalog for played songs and store per-market availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if onlyFailed && force {
				return errors.New("--failed and --force are mutually exclusive")
			}
			return ctx.withLockedStore(func(cfg *config.Config, store *sqlite.Adapter) error {
				client, err := newCatalogClient(cfg)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("workers") {
					workers = cfg.Matching.Workers
				}
				summary, err := newRunner(cfg, store, client).MapTracks(cmd.Context(), services.MapOptions{
					Filter: domain.SongFilter{
						ExternalIDs: songIDs,
						OnlyFailed:  onlyFailed,
						Force:       force,
						Limit:       limit,
					},
					DeleteExisting: deleteExisting,
					Workers:        workers,
				})
				fmt.Fprintln(cmd.OutOrStdout(), mapSummaryTable(summary))
				return err
			})
		},
	}

	cmd.Flags().Int64SliceVar(&songIDs, "song-id", nil, "Station song id to match (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of songs to process")
	cmd.Flags().BoolVar(&onlyFailed, "failed", false, "Only retry songs whose last search found nothing")
	cmd.Flags().BoolVar(&force, "force", false, "Re-match every song regardless of history")
	cmd.Flags().BoolVar(&deleteExisting, "delete-existing", false, "Delete stored availability before matching")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of songs matched concurrently")
	return cmd
}

func mapSummaryTable(s services.MapSummary) string {
	return fmt.Sprintf("run %s\n%s", s.RunID, countTable([][2]string{
		{"Processed", strconv.Itoa(s.Processed)},
		{"Matched", strconv.Itoa(s.Matched)},
		{"Unmatched", strconv.Itoa(s.Unmatched)},
		{"Failed", strconv.Itoa(s.Failed)},
	}))
}
