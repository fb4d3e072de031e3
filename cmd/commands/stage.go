package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	service "github.com/okian/futdash/internal/app"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/spf13/cobra"
)

type stageFunc func(*runner, context.Context) ([]service.Report, error)

// newStageCmd wraps a batch stage. Reports are printed even when the stage fails.
func newStageCmd(g *globalFlags, use, short string, fn stageFunc) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.WorkerCount = workers
			}
			r, err := openRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, r.Close()) }()

			reports, err := fn(r, cmd.Context())
			renderReports(cmd.OutOrStdout(), reports)
			return err
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "override worker_count")
	return cmd
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func renderReports(w io.Writer, reports []service.Report) {
	if len(reports) == 0 {
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Stage", "Rows", "Added", "Repaired", "Updated", "Derived", "Time series", "Status", "Elapsed", "Run ID"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			r.Stage, r.Rows, r.Added, r.Repaired, r.Updated, r.Derived, r.TimeSeries,
			formatStatus(r.ByStatus), r.Elapsed.Round(time.Millisecond), r.RunID,
		})
	}
	t.Render()
}

// formatStatus renders status counts as "failed=1 ok=20", sorted by status.
func formatStatus(counts map[model.FetchStatus]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[model.FetchStatus(k)])
	}
	return strings.Join(parts, " ")
}
