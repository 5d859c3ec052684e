package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
)

func newSongCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "song",
		Short: "Inspect and edit played songs",
	}
	cmd.AddCommand(newCorrectTitleCommand(ctx))
	cmd.AddCommand(newSongShowCommand(ctx))
	return cmd
}

func newCorrectTitleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "correct-title <station-song-id> [title]",
		Short: "Search with a corrected title; omit the title to clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station song id %q: %w", args[0], err)
			}
			var title string
			if len(args) == 2 {
				title = strings.TrimSpace(args[1])
			}
			return ctx.withStore(func(_ *config.Config, store *sqlite.Adapter) error {
				if err := store.SetCorrectedTitle(cmd.Context(), externalID, title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "song %d will be matched again on the next run\n", externalID)
				return nil
			})
		},
	}
}

func newSongShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <station-song-id>",
		Short: "Show a song and its stored availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station song id %q: %w", args[0], err)
			}
			return ctx.withStore(func(_ *config.Config, store *sqlite.Adapter) error {
				song, err := store.GetSongByExternalID(cmd.Context(), externalID)
				if err != nil {
					return err
				}
				records, err := store.AvailabilityForSong(cmd.Context(), song.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s - %s (%s)\n", strings.Join(song.ArtistNames, ", "), song.MatchTitle(), song.AlbumTitle)
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{r.Market, r.TrackID, strconv.Itoa(r.Score)})
				}
				fmt.Fprintln(out, renderTable([]string{"Market", "Track", "Score"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}
}
