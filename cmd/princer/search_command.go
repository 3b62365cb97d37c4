package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"princer/internal/vault"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var minConfidence float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Fuzzy-search the PrinceVault corpus by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			store, err := ctx.openVault(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("limit") {
				limit = cfg.Matching.SearchLimit
			}
			if !cmd.Flags().Changed("min-confidence") {
				minConfidence = cfg.Matching.MinConfidence
			}

			matcher := vault.NewMatcher(store, logger)
			results := matcher.SearchByTitle(cmd.Context(), args[0], limit, minConfidence)

			if jsonOut {
				return writeJSON(cmd, searchPayload(results))
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No matches for %q above confidence %.2f\n", args[0], minConfidence)
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					strconv.FormatInt(result.Song.ID, 10),
					result.Song.Title,
					fmt.Sprintf("%.2f", result.Confidence),
					result.Reason,
				})
			}
			headers := []string{"ID", "Title", "Confidence", "Reason"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of matches")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.6, "Minimum match confidence")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

type searchResultPayload struct {
	SongID     int64   `json:"song_id"`
	Title      string  `json:"title"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func searchPayload(results []vault.SearchResult) []searchResultPayload {
	payload := make([]searchResultPayload, 0, len(results))
	for _, result := range results {
		payload = append(payload, searchResultPayload{
			SongID:     result.Song.ID,
			Title:      result.Song.Title,
			Confidence: result.Confidence,
			Reason:     result.Reason,
		})
	}
	return payload
}
