package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// Services is what the commands need from the lead store.
type Services interface {
	Queue(ctx context.Context, teamID, assignedTo string) ([]entity.Lead, error)
	Dashboard(ctx context.Context, teamID, assignedTo string) (*usecase.Dashboard, error)
	Alerts(ctx context.Context, teamID string) ([]entity.SLAAlert, error)
	Preview(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult
	Assign(ctx context.Context, input usecase.AssignLeadInput) (*usecase.AssignLeadOutput, error)
}

// Connector opens the services once flags are parsed. The returned func
// releases them.
type Connector func(ctx context.Context, opts *RootOptions) (Services, func(), error)

type RootOptions struct {
	Format      string
	Team        string
	DatabaseURL string

	connect  Connector
	services Services
	release  func()
}

var ValidFormats = []string{"text", "json"}

// Execute runs the command tree with os.Args and releases the services
// once the command returns.
func Execute(ctx context.Context, connect Connector) error {
	cmd, opts := newRootCommand(connect)
	defer opts.close()
	return cmd.ExecuteContext(ctx)
}

func NewRootCommand(connect Connector) *cobra.Command {
	cmd, _ := newRootCommand(connect)
	return cmd
}

func newRootCommand(connect Connector) (*cobra.Command, *RootOptions) {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:           "leadctl",
		Short:         "Inspect lead queues and assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Team == "" {
				return fmt.Errorf("--team is required")
			}
			services, release, err := opts.connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			opts.services = services
			opts.release = release
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Team, "team", "", "team id")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "postgres DSN (defaults to DATABASE_URL)")

	cmd.AddCommand(NewQueueCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))
	cmd.AddCommand(NewAssignCommand(opts))

	return cmd, opts
}

func (o *RootOptions) close() {
	if o.release != nil {
		o.release()
		o.release = nil
	}
}
