package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/okian/futdash/internal/adapters/repository"
	"github.com/okian/futdash/internal/config"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/spf13/cobra"
)

// ErrUnknownTable is returned by inspect for a table name it does not know.
var ErrUnknownTable = errors.New("unknown table")

// Tables understood by inspect.
const (
	tableRaw        = "raw"
	tableDerived    = "derived"
	tableTimeSeries = "timeseries"
	tableHistory    = "history"
)

// view is a rendered subset of one table.
type view struct {
	header table.Row
	rows   []table.Row
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "inspect [raw|derived|timeseries|history]",
		Short:     "Print the head of a stored table",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{tableRaw, tableDerived, tableTimeSeries, tableHistory},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			name := tableRaw
			if len(args) == 1 {
				name = args[0]
			}
			v, err := loadView(cmd.Context(), cfg, name)
			if err != nil {
				return err
			}
			renderView(cmd.OutOrStdout(), v, limit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to print, 0 prints all")
	return cmd
}

func loadView(ctx context.Context, cfg *config.Config, name string) (view, error) {
	switch name {
	case tableRaw:
		records, err := repository.NewRecordTable(cfg.RawTablePath()).Load(ctx)
		if err != nil {
			return view{}, err
		}
		return rawView(records), nil
	case tableDerived:
		rows, err := repository.NewDerivedTable(cfg.DerivedTablePath(), false).Load(ctx)
		if err != nil {
			return view{}, err
		}
		return derivedView(rows), nil
	case tableTimeSeries:
		rows, err := repository.NewDerivedTable(cfg.HistoryTablePath(), true).Load(ctx)
		if err != nil {
			return view{}, err
		}
		return timeSeriesView(rows), nil
	case tableHistory:
		history, err := repository.OpenHistory(ctx, cfg.HistoryDBPath())
		if err != nil {
			return view{}, err
		}
		defer history.Close()
		rows, err := history.All(ctx)
		if err != nil {
			return view{}, err
		}
		return historyView(rows), nil
	}
	return view{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func rawView(records model.Table) view {
	v := view{header: table.Row{"ID", "Name", "Overall", "Position", "Resource", "Nation", "League", "Games", "Goals", "Assists", "Price", "Status"}}
	for _, r := range records {
		v.rows = append(v.rows, table.Row{
			r.PlayerID, r.PlayerName, r.Overall, r.Position, r.ResourceID, r.Nationality, r.League,
			r.NumGames, r.AvgGoals, r.AvgAssists, r.Price, r.Status,
		})
	}
	return v
}

func derivedView(rows []model.DerivedRow) view {
	v := view{header: table.Row{"ID", "Name", "Rating", "Position", "Role", "Contributions", "Price", "Popular nation", "Popular league", "Status"}}
	for _, d := range rows {
		v.rows = append(v.rows, table.Row{
			d.Player.PlayerID, d.Player.PlayerName, d.Rating.String(), d.Player.Position, d.GeneralPosition,
			d.Contributions.String(), d.Player.Price, d.PopularNations, d.PopularLeagues, d.Player.Status,
		})
	}
	return v
}

func timeSeriesView(rows []model.DerivedRow) view {
	v := view{header: table.Row{"Date", "ID", "Name", "Contributions", "Price", "Days available", "Days since launch", "Weekday"}}
	for _, d := range rows {
		v.rows = append(v.rows, table.Row{
			d.Date.Format(model.DateLayout), d.Player.PlayerID, d.Player.PlayerName,
			d.Contributions.String(), d.Player.Price, d.DaysAvailable, d.DaysSinceLaunch, d.Weekday,
		})
	}
	return v
}

func historyView(rows []model.HistoryRow) view {
	v := view{header: table.Row{"Date", "ID", "Resource", "Revision", "Games", "Goals", "Assists", "Price"}}
	for _, h := range rows {
		v.rows = append(v.rows, table.Row{
			h.Date.Format(model.DateLayout), h.PlayerID, h.ResourceID, h.Revision,
			h.NumGames, h.AvgGoals, h.AvgAssists, h.Price,
		})
	}
	return v
}

func renderView(w io.Writer, v view, limit int) {
	t := newTable(w)
	t.AppendHeader(v.header)
	shown := v.rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	t.AppendRows(shown)
	t.AppendFooter(table.Row{"rows", strconv.Itoa(len(shown)) + " of " + strconv.Itoa(len(v.rows))})
	t.Style().Format.Footer = text.FormatLower
	t.Render()
}
