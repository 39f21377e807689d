package main

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"emotiplot/internal/config"
	"emotiplot/internal/emotibit"
	"emotiplot/internal/model"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List known channel codes and the exports present in a session folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			folder := cfg.Paths.DataDir
			if cmd.Flags().Changed("data") {
				folder, err = config.ExpandPath(strings.TrimSpace(dataDir))
				if err != nil {
					return fmt.Errorf("resolve --data: %w", err)
				}
			}

			var counts map[string]int
			if folder != "" {
				counts, err = emotibit.AvailableCodes(folder)
				if err != nil {
					return err
				}
			}

			selected := make(map[string]struct{})
			for _, code := range cfg.SignalCodes() {
				selected[code] = struct{}{}
			}

			rows := make([][]string, 0, len(model.Channels))
			seen := make(map[string]struct{}, len(model.Channels))
			addRow := func(code string) {
				seen[code] = struct{}{}
				ch := cfg.Channel(code)
				files := "-"
				if counts != nil {
					files = humanize.Comma(int64(counts[code]))
				}
				_, plotted := selected[code]
				rows = append(rows, []string{code, ch.Description, ch.Units, ch.Color, files, yesNo(plotted)})
			}
			for _, known := range model.Channels {
				addRow(known.Code)
			}
			extra := make([]string, 0)
			for code := range cfg.Channels {
				if _, ok := seen[code]; !ok {
					extra = append(extra, code)
				}
			}
			for code := range counts {
				if _, ok := seen[code]; !ok && !slices.Contains(extra, code) {
					extra = append(extra, code)
				}
			}
			sort.Strings(extra)
			for _, code := range extra {
				addRow(code)
			}

			out := cmd.OutOrStdout()
			if folder != "" {
				fmt.Fprintf(out, "Session folder: %s\n", folder)
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Code", "Description", "Units", "Color", "Files", "Plotted"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data", "d", "", "EmotiBit session folder to scan (overrides paths.data_dir)")
	return cmd
}
