package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"photosift/internal/history"
	"photosift/internal/tracker"
)

type reconcileReport struct {
	Scheduled   []string `json:"scheduled,omitempty"`
	ListPath    string   `json:"list_path,omitempty"`
	RunID       string   `json:"run_id,omitempty"`
	NothingToDo bool     `json:"nothing_to_do"`
}

func newReconcileCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Detect which grouped copies were deleted and schedule their originals",
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

			hist, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer hist.Close()

			ctx := cmd.Context()
			runID, err := hist.StartRun(ctx, history.KindReconcile)
			if err != nil {
				return err
			}

			store := tracker.NewStore(cfg.MappingPath(), cfg.DeleteListPath(), logger)
			r := tracker.NewReconciler(store, cfg.Paths.OutputDir, logger)
			doomed, err := r.Run()
			if err != nil {
				_ = hist.FailRun(context.Background(), runID, err.Error())
				return err
			}
			if err := hist.FinishRun(ctx, runID, history.Outcome{FilesDeleted: len(doomed)}); err != nil {
				return err
			}

			report := reconcileReport{
				Scheduled:   doomed,
				RunID:       runID,
				NothingToDo: len(doomed) == 0,
			}
			if len(doomed) > 0 {
				report.ListPath = store.DeleteListPath()
			}
			if cctx.jsonMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(doomed) == 0 {
				fmt.Fprintln(out, paint(colorize, color.FgGreen, "Output tree matches the mapping; nothing scheduled for deletion"))
				return nil
			}
			for _, path := range doomed {
				fmt.Fprintln(out, path)
			}
			line := fmt.Sprintf("%d originals scheduled for deletion (list written to %s)", len(doomed), store.DeleteListPath())
			fmt.Fprintln(out, paint(colorize, color.FgYellow, line))
			fmt.Fprintln(out, "Run `photosift cleanup` to delete them.")
			return nil
		},
	}
}
