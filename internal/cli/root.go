// Package cli is the inbound surface of the scoring backend: a cobra
// command tree operating on one in-memory session.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	customerssvc "clientflow_backend/internal/customers/service"
	scoringsvc "clientflow_backend/internal/scoring/service"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/format"
	"clientflow_backend/platform/logger"
	platformvalidator "clientflow_backend/platform/validator"
)

// Session is the set of services one invocation works on. Nothing in it
// outlives the process.
type Session struct {
	ID        string
	Customers *customerssvc.Service
	Scoring   *scoringsvc.Service
	Format    *format.Formatter
	Now       func() time.Time
}

type rootOptions struct {
	criteriaPath string
	jsonOutput   bool
}

func newRootCmd(s *Session) *cobra.Command {
	opts := &rootOptions{}
	if s.Now == nil {
		s.Now = func() time.Time { return time.Now().UTC() }
	}
	if s.Format == nil {
		s.Format = format.Default()
	}

	cmd := &cobra.Command{
		Use:           "clientflow",
		Short:         "Lead scoring for the ClientFlow CRM",
		Long:          "clientflow scores customers against weighted criteria, recalculates stored lead scores and reports the pipeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.WithValue(cmd.Context(), logger.SessionIDKey, s.ID)
			ctx = context.WithValue(ctx, logger.OperationKey, cmd.CommandPath())
			cmd.SetContext(ctx)

			if opts.criteriaPath == "" {
				return nil
			}
			_, err := s.Scoring.LoadCriteria(ctx, opts.criteriaPath)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.criteriaPath, "criteria", "", "Load the criteria set from a YAML file")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newCriteriaCmd(s, opts))
	cmd.AddCommand(newScoreCmd(s, opts))
	cmd.AddCommand(newRecalculateCmd(s, opts))
	cmd.AddCommand(newDashboardCmd(s, opts))
	cmd.AddCommand(newCustomersCmd(s, opts))
	cmd.AddCommand(newDealsCmd(s, opts))
	return cmd
}

// NewRootCmd returns the root command bound to s.
func NewRootCmd(s *Session) *cobra.Command {
	return newRootCmd(s)
}

// Execute runs the command tree with the process arguments.
func Execute(ctx context.Context, s *Session) error {
	return newRootCmd(s).ExecuteContext(ctx)
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintError writes err for a human reader, including the field issues of
// a validation error and the underlying cause when there is one.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, errorStyle.Render("error:")+" "+err.Error())

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return
	}
	if issues, ok := appErr.Details.([]platformvalidator.FieldIssue); ok {
		for _, issue := range issues {
			line := fmt.Sprintf("  %s failed %s", issue.Field, issue.Rule)
			if issue.Param != "" {
				line += "=" + issue.Param
			}
			fmt.Fprintln(w, dimStyle.Render(line))
		}
	}
	if appErr.Err != nil {
		fmt.Fprintln(w, dimStyle.Render("  cause: "+appErr.Err.Error()))
	}
}
