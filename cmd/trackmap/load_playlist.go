package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/trackmap/internal/adapters/playlist"
	"github.com/ewilliams-labs/trackmap/internal/adapters/sqlite"
	"github.com/ewilliams-labs/trackmap/internal/config"
	"github.com/ewilliams-labs/trackmap/internal/core/services"
)

func newLoadPlaylistCommand(ctx *commandContext) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "load-playlist",
		Short: "Fetch the station playlist and store new plays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedStore(func(cfg *config.Config, store *sqlite.Adapter) error {
				if url == "" {
					url = cfg.Playlist.URL
				}
				feed := playlist.NewClient(url, time.Duration(cfg.Playlist.TimeoutSeconds)*time.Second)
				summary, err := services.NewPlaylistLoader(feed, store).Load(cmd.Context())
				if err != nil {
					return err
				}
				if summary.NotModified {
					fmt.Fprintln(cmd.OutOrStdout(), "playlist not modified")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), countTable([][2]string{
					{"Fetched", strconv.Itoa(summary.Fetched)},
					{"Saved", strconv.Itoa(summary.Saved)},
					{"Skipped", strconv.Itoa(summary.Skipped)},
					{"Conflicts", strconv.Itoa(summary.Conflicts)},
				}))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Playlist feed URL (defaults to the configured feed)")
	return cmd
}
