package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func NewQueueCommand(opts *RootOptions) *cobra.Command {
	var assignedTo string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Print the ranked work queue of a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := opts.services.Queue(cmd.Context(), opts.Team, assignedTo)
			if err != nil {
				return err
			}

			out := newFormatter(opts, cmd.OutOrStdout())
			if out.json() {
				return out.writeJSON(leads)
			}
			if len(leads) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "queue is empty")
				return nil
			}
			rows := make([][]any, 0, len(leads))
			for i, l := range leads {
				rows = append(rows, []any{i + 1, l.ID, l.FullName(), l.Status, priorityLabel(l.Priority), formatDate(l.CurrentActionDate), orDash(l.AssignedTo)})
			}
			return out.table([]any{"#", "ID", "NAME", "STATUS", "PRIORITY", "NEXT ACTION", "OWNER"}, rows)
		},
	}
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "only leads owned by this user")

	return cmd
}

func priorityLabel(p entity.Priority) string {
	if p == "" {
		return string(entity.PriorityNone)
	}
	return string(p)
}
