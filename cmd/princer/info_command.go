package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"princer/internal/audio"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show file details and embedded tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := audio.Probe(args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"File", info.Filename},
				{"Format", strings.ToUpper(strings.TrimPrefix(info.Extension, "."))},
				{"Size", audio.FormatSize(info.SizeBytes)},
			}
			if info.DurationSeconds > 0 {
				rows = append(rows,
					[]string{"Duration", audio.FormatDuration(info.DurationSeconds)},
					[]string{"Bitrate", fmt.Sprintf("%d kbps", info.BitrateKbps())},
				)
			}
			fmt.Fprintln(out, renderTable(out, []string{"Property", "Value"}, rows, nil))

			if len(info.Tags) == 0 {
				fmt.Fprintln(out, "No embedded tags.")
				return nil
			}
			fmt.Fprintln(out, renderTable(out, []string{"Tag", "Value"}, tagRows(info.Tags), nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	return cmd
}

func tagRows(tags map[string]string) [][]string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, tags[key]})
	}
	return rows
}
