package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func NewAssignCommand(opts *RootOptions) *cobra.Command {
	var (
		formationTypeID string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "assign [lead-id]",
		Short: "Route a lead to an advisor",
		Long: `Route a lead to an advisor of the team.

With --dry-run only the decision is printed; the lead id is optional and
--formation-type is required.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(opts, cmd.OutOrStdout())

			if dryRun {
				if formationTypeID == "" {
					return fmt.Errorf("--formation-type is required with --dry-run")
				}
				result := opts.services.Preview(cmd.Context(), opts.Team, formationTypeID)
				if out.json() {
					return out.writeJSON(result)
				}
				printResult(cmd.OutOrStdout(), result)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("lead id is required")
			}
			res, err := opts.services.Assign(cmd.Context(), usecase.AssignLeadInput{
				LeadID:          args[0],
				TeamID:          opts.Team,
				FormationTypeID: formationTypeID,
			})
			if err != nil {
				return err
			}
			if out.json() {
				return out.writeJSON(res)
			}
			printResult(cmd.OutOrStdout(), res.Result)
			return nil
		},
	}
	cmd.Flags().StringVar(&formationTypeID, "formation-type", "", "formation type to route on")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the decision without writing it")

	return cmd
}

func printResult(w io.Writer, r entity.AssignmentResult) {
	fmt.Fprintf(w, "assigned to: %s\n", orDash(r.UserID))
	fmt.Fprintf(w, "reason:      %s\n", r.Reason)
	fmt.Fprintf(w, "strategy:    %s\n", r.Strategy)
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "skipped:     %s (%s)\n", s.UserID, s.Reason)
	}
}
