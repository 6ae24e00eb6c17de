package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"photosift/internal/cluster"
	"photosift/internal/config"
	"photosift/internal/history"
	"photosift/internal/materialize"
	"photosift/internal/scanner"
	"photosift/internal/tracker"
)

type scanReport struct {
	FilesFound   int    `json:"files_found"`
	FilesHashed  int    `json:"files_hashed"`
	Groups       int    `json:"groups"`
	GroupSizes   []int  `json:"group_sizes,omitempty"`
	FilesCopied  int    `json:"files_copied"`
	FilesMissing int    `json:"files_missing"`
	CopiesFailed int    `json:"copies_failed"`
	OutputDir    string `json:"output_dir"`
	MappingPath  string `json:"mapping_path"`
	RunID        string `json:"run_id,omitempty"`
}

func newScanCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find near-duplicate images and build the grouped output tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				// A positional directory overrides the configured input for
				// this run only.
				override, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				scoped := *cfg
				scoped.Paths.InputDir = override
				cfg = &scoped
			}
			logger, err := cctx.newLogger()
			if err != nil {
				return err
			}

			lock, err := cctx.acquireLock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			hist, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer hist.Close()

			ctx := cmd.Context()
			runID, err := hist.StartRun(ctx, history.KindScan)
			if err != nil {
				return err
			}

			progress := !cctx.jsonMode() && isatty.IsTerminal(os.Stdout.Fd())
			report, err := runScan(ctx, cfg, logger, progress)
			if err != nil {
				_ = hist.FailRun(context.Background(), runID, err.Error())
				return err
			}
			report.RunID = runID

			outcome := history.Outcome{
				FilesScanned: report.FilesFound,
				GroupsFound:  report.Groups,
				FilesCopied:  report.FilesCopied,
			}
			if err := hist.FinishRun(ctx, runID, outcome); err != nil {
				return err
			}

			if cctx.jsonMode() {
				return writeJSON(cmd, report)
			}
			printScanReport(cmd, report)
			return nil
		},
	}
}

// runScan drives the full pipeline: enumerate, fingerprint, cluster,
// materialize, and persist the mapping.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, progress bool) (scanReport, error) {
	report := scanReport{
		OutputDir:   cfg.Paths.OutputDir,
		MappingPath: cfg.MappingPath(),
	}

	sc := scanner.New(cfg.ExtensionSet(), cfg.Scan.Workers, progress, logger)
	files, err := sc.FindImageFiles(cfg.Paths.InputDir)
	if err != nil {
		return report, err
	}
	report.FilesFound = len(files)

	items, err := sc.Process(ctx, files)
	if err != nil {
		return report, err
	}
	report.FilesHashed = len(items)

	engine := cluster.NewEngine(cfg.Cluster.Threshold, cfg.Cluster.MaxGroupSize, cfg.Scan.Workers, logger)
	groups, err := engine.Cluster(ctx, items)
	if err != nil {
		return report, err
	}
	report.Groups = len(groups)
	for _, group := range groups {
		report.GroupSizes = append(report.GroupSizes, len(group))
	}

	m := materialize.New(cfg.Paths.OutputDir, cfg.Scan.Workers, cfg.Scan.VerifyCopies, logger)
	mapping, summary, err := m.Run(ctx, groups)
	if err != nil {
		return report, err
	}
	report.FilesCopied = summary.Copied
	report.FilesMissing = summary.Missing
	report.CopiesFailed = summary.Failed

	store := tracker.NewStore(cfg.MappingPath(), cfg.DeleteListPath(), logger)
	if err := store.SaveMapping(mapping); err != nil {
		return report, err
	}
	return report, nil
}

func printScanReport(cmd *cobra.Command, report scanReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Scanned %d files, fingerprinted %d\n", report.FilesFound, report.FilesHashed)
	if report.Groups == 0 {
		fmt.Fprintln(out, paint(colorize, color.FgGreen, "No near-duplicate groups found"))
		return
	}

	rows := make([][]string, 0, len(report.GroupSizes))
	for i, size := range report.GroupSizes {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", size)})
	}
	fmt.Fprintln(out, renderTable([]string{"Group", "Images"}, rows, []columnAlignment{alignRight, alignRight}))

	line := fmt.Sprintf("%d groups, %d files copied to %s", report.Groups, report.FilesCopied, report.OutputDir)
	fmt.Fprintln(out, paint(colorize, color.FgGreen, line))
	if report.FilesMissing > 0 {
		fmt.Fprintln(out, paint(colorize, color.FgYellow, fmt.Sprintf("%d source files disappeared during the run", report.FilesMissing)))
	}
	if report.CopiesFailed > 0 {
		fmt.Fprintln(out, paint(colorize, color.FgRed, fmt.Sprintf("%d copies failed; see the log for details", report.CopiesFailed)))
	}
	fmt.Fprintln(out, "Review the groups, delete the copies you do not want, then run `photosift reconcile`.")
}
