package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewAlertsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List leads close to or past the response deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := opts.services.Alerts(cmd.Context(), opts.Team)
			if err != nil {
				return err
			}

			out := newFormatter(opts, cmd.OutOrStdout())
			if out.json() {
				return out.writeJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no alerts")
				return nil
			}
			rows := make([][]any, 0, len(alerts))
			for _, a := range alerts {
				rows = append(rows, []any{a.Level, a.LeadID, a.LeadName, a.Elapsed.Round(time.Minute), orDash(a.AssignedTo)})
			}
			return out.table([]any{"LEVEL", "LEAD", "NAME", "WAITING", "OWNER"}, rows)
		},
	}
}
