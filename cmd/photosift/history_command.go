package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"photosift/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			hist, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer hist.Close()

			runs, err := hist.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if cctx.jsonMode() {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			title := cases.Title(language.Und)
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Kind,
					title.String(run.Status),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					runDuration(run),
					strconv.Itoa(run.FilesScanned),
					strconv.Itoa(run.GroupsFound),
					strconv.Itoa(run.FilesCopied),
					strconv.Itoa(run.FilesDeleted),
					reclaimedCell(run),
				})
			}
			headers := []string{"Run", "Kind", "Status", "Started", "Duration", "Scanned", "Groups", "Copied", "Deleted", "Reclaimed"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignLeft, alignLeft, alignRight,
				alignRight, alignRight, alignRight, alignRight, alignRight,
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run history.Run) string {
	if run.FinishedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}

func reclaimedCell(run history.Run) string {
	if run.BytesReclaimed == 0 {
		return "-"
	}
	return humanize.Bytes(run.BytesReclaimed)
}
