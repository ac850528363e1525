package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warehouse-sim/warehouse-sim/internal/history"
	"github.com/warehouse-sim/warehouse-sim/sim"
)

var (
	historyLimit int
	historyAll   bool // every user instead of --user
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished sessions and summary statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(viper.GetString("history-db"))
		if err != nil {
			return err
		}
		defer db.Close()
		store := history.Store{DB: db}

		user := viper.GetString("user")
		if historyAll {
			user = ""
		}
		recs, err := store.List(cmd.Context(), user, historyLimit)
		if err != nil {
			return err
		}
		stats, err := store.Stats(cmd.Context(), user)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), recs, stats)
		return nil
	},
}

func printHistory(out io.Writer, recs []sim.FinishedSession, stats history.Stats) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet.")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Date", "User", "Mode", "Style", "Time", "Moves", "Rounds", "Cost"})
	for _, r := range recs {
		tw.AppendRow(table.Row{
			r.Date.Format("2006-01-02 15:04"), r.UserID, r.Mode, r.PlayStyle,
			fmt.Sprintf("%ds", r.TimeSeconds), r.Moves, r.Rounds, fmt.Sprintf("$%.2f", r.Cost),
		})
	}
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d sessions", stats.Sessions), "", "", "",
		fmt.Sprintf("best %ds", stats.BestTime), stats.TotalMoves, "", fmt.Sprintf("avg $%.2f", stats.AverageCost),
	})
	tw.Render()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum sessions to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "List every user's sessions")
}
