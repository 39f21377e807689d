package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"emotiplot/internal/config"
	"emotiplot/internal/logging"
	"emotiplot/internal/pipeline"
)

type renderFlags struct {
	dataDir      string
	schedulePath string
	outputDir    string
	root         string
	signals      []string
	date         string
	period       string
	workers      int
	skipMissing  bool
	createOutput bool
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one PNG per signal with the music schedule shaded",
		Long: "Render loads the music schedule once, then plots every configured channel of the\n" +
			"session folder. With --root every subfolder is processed as its own session and\n" +
			"plots are written to <subfolder>/plots.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyRenderFlags(base, cmd, flags)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			runner := pipeline.New(cfg, logger)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if root := strings.TrimSpace(flags.root); root != "" {
				expanded, err := config.ExpandPath(root)
				if err != nil {
					return fmt.Errorf("resolve --root: %w", err)
				}
				summaries, runErr := runner.RunRoot(cmd.Context(), expanded)
				for _, summary := range summaries {
					printSummary(out, summary, colorize)
				}
				return runErr
			}

			summary, runErr := runner.Run(cmd.Context(), pipeline.SessionFromConfig(cfg))
			printSummary(out, summary, colorize)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&flags.dataDir, "data", "d", "", "EmotiBit session folder (overrides paths.data_dir)")
	cmd.Flags().StringVarP(&flags.schedulePath, "schedule", "s", "", "Music schedule .xlsx or .csv (overrides paths.schedule_path)")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "Output folder for PNG files (overrides paths.output_dir)")
	cmd.Flags().StringVar(&flags.root, "root", "", "Dataset root; every subfolder is rendered as a session")
	cmd.Flags().StringSliceVar(&flags.signals, "signal", nil, "Channel code to render (repeatable; overrides render.signals)")
	cmd.Flags().StringVar(&flags.date, "date", "", "Recording date YYYY-MM-DD (overrides session.date)")
	cmd.Flags().StringVar(&flags.period, "period", "", "Session period: auto, am, or pm (overrides session.period)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Channels rendered concurrently (overrides render.workers)")
	cmd.Flags().BoolVar(&flags.skipMissing, "skip-missing", false, "Skip channels without CSV files instead of failing")
	cmd.Flags().BoolVar(&flags.createOutput, "create-output", false, "Create the output folder when it does not exist")
	return cmd
}

// applyRenderFlags returns a copy of base with the flags the user set applied
// and re-validated. base itself is left untouched.
func applyRenderFlags(base *config.Config, cmd *cobra.Command, flags renderFlags) (*config.Config, error) {
	cfg := *base
	cfg.Render.Signals = append([]string(nil), base.Render.Signals...)

	expand := func(name, value string, target *string) error {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("resolve --%s: %w", name, err)
		}
		*target = expanded
		return nil
	}
	if err := expand("data", flags.dataDir, &cfg.Paths.DataDir); err != nil {
		return nil, err
	}
	if err := expand("schedule", flags.schedulePath, &cfg.Paths.SchedulePath); err != nil {
		return nil, err
	}
	if err := expand("output", flags.outputDir, &cfg.Paths.OutputDir); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("signal") {
		cfg.Render.Signals = normalizeCodes(flags.signals)
	}
	if cmd.Flags().Changed("date") {
		cfg.Session.Date = strings.TrimSpace(flags.date)
	}
	if cmd.Flags().Changed("period") {
		cfg.Session.Period = strings.ToLower(strings.TrimSpace(flags.period))
	}
	if cmd.Flags().Changed("workers") && flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.skipMissing {
		cfg.Render.SkipMissing = true
	}
	if flags.createOutput {
		cfg.Render.CreateOutputDir = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeCodes(values []string) []string {
	codes := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		code := strings.ToUpper(strings.TrimSpace(value))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

func printSummary(out io.Writer, summary pipeline.Summary, colorize bool) {
	if summary.RunID == "" {
		return
	}
	for _, line := range renderSectionHeader("Session "+summary.Session, colorize) {
		fmt.Fprintln(out, line)
	}
	if summary.SchedulePath != "" {
		fmt.Fprintln(out, renderStatusLine("Schedule", statusInfo,
			fmt.Sprintf("%s (%s entries)", summary.SchedulePath, humanize.Comma(int64(summary.Entries))), colorize))
	}
	if summary.OutputDir != "" {
		fmt.Fprintln(out, renderStatusLine("Output", statusInfo, summary.OutputDir, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
	if len(summary.Results) == 0 {
		fmt.Fprintln(out, renderStatusLine("Channels", statusWarn, "none completed", colorize))
		return
	}

	rows := make([][]string, 0, len(summary.Results))
	totalBytes := 0
	for _, res := range summary.Results {
		totalBytes += res.Bytes
		detail := res.Path
		if detail == "" {
			detail = res.Reason
		}
		rows = append(rows, []string{
			res.Signal,
			colorizeCell(string(res.Status), channelStatusKind(res.Status), colorize),
			humanize.Comma(int64(res.Samples)),
			strconv.Itoa(res.Spans),
			strconv.Itoa(res.Levels),
			formatBytes(res.Bytes),
			res.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}
	footer := []string{
		"",
		fmt.Sprintf("%d rendered", summary.Count(pipeline.StatusRendered)),
		"", "", "",
		formatBytes(totalBytes),
		summary.Elapsed.Round(time.Millisecond).String(),
		"",
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Channel", "Status", "Samples", "Spans", "Label Rows", "Size", "Time", "File"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
		footer:  footer,
	}))
}

func formatBytes(n int) string {
	if n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}
