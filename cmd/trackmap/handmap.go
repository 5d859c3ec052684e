package main

import (
	"fmt"
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/trackmap/internal/adapters/spotify"
	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
	"github.com/ewilliams-labs/trackmap/internal/core/services"
)

func newHandmapService(cfg *config.Config, store *sqlite.Adapter, client *spotify.Client) *services.HandmapService {
	return services.NewHandmapService(store, store, client, services.NewAvailabilityPersister(store),
		newScorer(cfg), clockwork.NewRealClock())
}

func newMapHandmappedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "map-handmapped",
		Short: "Apply pending curated song to track assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *sqlite.Adapter) error {
				client, err := newCatalogClient(cfg)
				if err != nil {
					return err
				}
				summary, err := newHandmapService(cfg, store, client).ProcessPending(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), countTable([][2]string{
					{"Processed", strconv.Itoa(summary.Processed)},
					{"Failed", strconv.Itoa(summary.Failed)},
				}))
				return err
			})
		},
	}
}

func newHandmapCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handmap",
		Short: "Manage curated song to track assignments",
	}

	var infoURL string
	add := &cobra.Command{
		Use:   "add <station-song-id> <track>",
		Short: "Assign a catalog track (id, URI or URL) to a station song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station song id %q: %w", args[0], err)
			}
			trackID, err := spotify.ParseTrackID(args[1])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *sqlite.Adapter) error {
				svc := services.NewHandmapService(store, store, nil, nil, newScorer(cfg), nil)
				h, err := svc.Add(cmd.Context(), externalID, trackID, infoURL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "song %d mapped to %s (pending)\n", h.SongID, h.CatalogTrackID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&infoURL, "info-url", "", "Where the assignment was researched")
	cmd.AddCommand(add)
	return cmd
}

func newTrackIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "track-id <track>",
		Short:       "Print the catalog track id for an id, URI or URL",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := spotify.ParseTrackID(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
