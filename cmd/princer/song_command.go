package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"princer/internal/vault"
)

func newSongCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "song <id>",
		Short: "Show a PrinceVault entry and its parsed metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openVault(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			song, err := store.SongByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			meta := song.Metadata()

			if jsonOut {
				return writeJSON(cmd, songPayload(song, meta))
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"ID", strconv.FormatInt(song.ID, 10)},
				{"Title", song.Title},
			}
			rows = appendIfSet(rows, "Performer", meta.Performer)
			rows = appendIfSet(rows, "Written by", meta.WrittenBy)
			rows = appendIfSet(rows, "Produced by", meta.ProducedBy)
			rows = appendIfSet(rows, "Recording date", meta.RecordingDate)
			rows = appendIfSet(rows, "Session", meta.SessionInfo)
			rows = appendIfSet(rows, "Personnel", strings.Join(meta.Personnel, "; "))
			rows = appendIfSet(rows, "Albums", strings.Join(meta.AlbumAppearances, "; "))
			rows = appendIfSet(rows, "Related", strings.Join(meta.RelatedVersions, "; "))
			rows = appendIfSet(rows, "Categories", strings.Join(meta.Categories, "; "))
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func appendIfSet(rows [][]string, label, value string) [][]string {
	if strings.TrimSpace(value) == "" {
		return rows
	}
	return append(rows, []string{label, value})
}

type songDetailPayload struct {
	SongID   int64           `json:"song_id"`
	Title    string          `json:"title"`
	Metadata *vault.Metadata `json:"metadata"`
}

func songPayload(song *vault.Song, meta *vault.Metadata) songDetailPayload {
	return songDetailPayload{
		SongID:   song.ID,
		Title:    song.Title,
		Metadata: meta,
	}
}
