package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"photosift/internal/history"
	"photosift/internal/tracker"
)

type cleanupReport struct {
	Deleted        int    `json:"deleted"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
	BytesReclaimed uint64 `json:"bytes_reclaimed"`
	DryRun         bool   `json:"dry_run"`
	RunID          string `json:"run_id,omitempty"`
}

func newCleanupCommand(cctx *commandContext) *cobra.Command {
	var dryRun bool
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete the scheduled original files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
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

			store := tracker.NewStore(cfg.MappingPath(), cfg.DeleteListPath(), logger)
			cleaner := tracker.NewCleaner(store, logger)

			pending := cleaner.Pending()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(pending) == 0 {
				if cctx.jsonMode() {
					return writeJSON(cmd, cleanupReport{DryRun: dryRun})
				}
				fmt.Fprintln(out, paint(colorize, color.FgGreen, "Nothing scheduled for deletion"))
				return nil
			}

			if !dryRun && !assumeYes && !cctx.jsonMode() {
				if !confirmDeletion(cmd, pending) {
					fmt.Fprintln(out, "Aborted; nothing was deleted")
					return nil
				}
			}

			hist, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer hist.Close()

			ctx := cmd.Context()
			runID, err := hist.StartRun(ctx, history.KindCleanup)
			if err != nil {
				return err
			}

			summary := cleaner.Run(dryRun)
			outcome := history.Outcome{
				FilesDeleted:   summary.Deleted,
				BytesReclaimed: summary.BytesReclaimed,
			}
			if err := hist.FinishRun(context.Background(), runID, outcome); err != nil {
				return err
			}

			report := cleanupReport{
				Deleted:        summary.Deleted,
				Skipped:        summary.Skipped,
				Failed:         summary.Failed,
				BytesReclaimed: summary.BytesReclaimed,
				DryRun:         dryRun,
				RunID:          runID,
			}
			if cctx.jsonMode() {
				return writeJSON(cmd, report)
			}
			printCleanupReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be deleted without touching anything")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirmDeletion lists the doomed files and asks for an explicit yes. A
// non-interactive stdin declines.
func confirmDeletion(cmd *cobra.Command, pending []string) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "The following %d files will be permanently deleted:\n", len(pending))
	for _, path := range pending {
		fmt.Fprintf(out, "  %s\n", path)
	}

	stdin, ok := cmd.InOrStdin().(*os.File)
	if ok && !isatty.IsTerminal(stdin.Fd()) {
		fmt.Fprintln(out, "Refusing to delete without confirmation; pass --yes to proceed non-interactively")
		return false
	}

	fmt.Fprint(out, "Proceed? [y/N] ")
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printCleanupReport(cmd *cobra.Command, report cleanupReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	verb := "Deleted"
	if report.DryRun {
		verb = "Would delete"
	}
	line := fmt.Sprintf("%s %d files, reclaiming %s", verb, report.Deleted, humanize.Bytes(report.BytesReclaimed))
	fmt.Fprintln(out, paint(colorize, color.FgGreen, line))
	if report.Skipped > 0 {
		fmt.Fprintln(out, paint(colorize, color.FgYellow, fmt.Sprintf("%d files were already gone", report.Skipped)))
	}
	if report.Failed > 0 {
		fmt.Fprintln(out, paint(colorize, color.FgRed, fmt.Sprintf("%d deletions failed; see the log for details", report.Failed)))
	}
}
