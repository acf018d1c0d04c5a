package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	var assignedTo string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the KPIs and breakdowns of a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.services.Dashboard(cmd.Context(), opts.Team, assignedTo)
			if err != nil {
				return err
			}

			out := newFormatter(opts, cmd.OutOrStdout())
			if out.json() {
				return out.writeJSON(d)
			}

			w := cmd.OutOrStdout()
			k := d.KPIs
			fmt.Fprintf(w, "total %d  new %d  contacted %d  in progress %d  action required %d\n",
				k.Total, k.New, k.Contacted, k.InProgress, k.ActionRequired)
			fmt.Fprintf(w, "won %d  lost %d  conversion %.1f%%\n\n", k.Closings, k.Lost, d.ConversionRate)

			rows := make([][]any, 0, len(d.StatusBreakdown))
			for _, s := range d.StatusBreakdown {
				rows = append(rows, []any{s.Name, s.Count, fmt.Sprintf("%.1f%%", s.Percentage)})
			}
			if d.Unmatched > 0 {
				rows = append(rows, []any{"(other)", d.Unmatched, "-"})
			}
			if err := out.table([]any{"STATUS", "LEADS", "SHARE"}, rows); err != nil {
				return err
			}

			fmt.Fprintf(w, "\nurgent %d  this week %d  standby %d\n", len(d.Urgent), len(d.ThisWeek), len(d.Standby))
			return nil
		},
	}
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "only leads owned by this user")

	return cmd
}
