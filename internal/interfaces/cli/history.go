package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/DiagBench/internal/infrastructure/database/postgres"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List validation runs saved with validate --save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, closeStore, err := openRunStore(ctx, cliCtx.Config.Database, cliCtx.Logger.Named("history"))
			if err != nil {
				return err
			}
			defer closeStore()

			runs, err := store.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cliCtx.JSON() {
				if runs == nil {
					runs = []postgres.RunSummary{}
				}
				return printJSON(out, runs)
			}
			printHistory(cmd, runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func printHistory(cmd *cobra.Command, runs []postgres.RunSummary) {
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No saved runs.")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Run ID", "Started", "Source", "Passed", "Rate"})
	for _, r := range runs {
		rate := "n/a"
		if r.Rate != nil {
			rate = fmt.Sprintf("%.1f%%", *r.Rate*100)
		}
		if r.FinishedAt == nil {
			rate = "running"
		}
		table.Append([]string{
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			strconv.Itoa(r.Passed) + "/" + strconv.Itoa(r.Total),
			rate,
		})
	}
	table.Render()
}

//Personal.AI order the ending
