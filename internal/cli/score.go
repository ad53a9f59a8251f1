package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"clientflow_backend/internal/customers/transport"
	scoringtransport "clientflow_backend/internal/scoring/transport"
)

func newScoreCmd(s *Session, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <customer-id-or-name>",
		Short: "Score one customer against the active criteria",
		Long:  "Evaluate one customer and show the per-criterion breakdown. The stored lead score is not changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			customer, err := s.Customers.ResolveCustomer(ctx, args[0])
			if err != nil {
				return err
			}
			resp, err := s.Scoring.ScoreCustomer(ctx, customer.ID)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderScore(resp))
			return nil
		},
	}
}

func newRecalculateCmd(s *Session, opts *rootOptions) *cobra.Command {
	var weights []string

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Rescore every customer and store the scores that changed",
		Long: "Apply any --weight overrides to this session, then rescore every customer. " +
			"Each changed score is stored with a new scoring history entry.",
		Example: `  clientflow recalculate --weight "Deal Value=40" --weight "Company Size=15"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			for _, raw := range weights {
				override, err := parseWeightOverride(raw)
				if err != nil {
					return err
				}
				id, err := s.Scoring.ResolveCriterion(ctx, override.ref)
				if err != nil {
					return err
				}
				if _, err := s.Scoring.SetWeight(ctx, id, override.weight); err != nil {
					return err
				}
			}

			result, err := s.Scoring.RecalculateAll(ctx)
			if opts.jsonOutput {
				if jsonErr := renderJSON(cmd, result); jsonErr != nil {
					return jsonErr
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderRecalculation(result, s.Now()))
			}
			return err
		},
	}
	cmd.Flags().StringArrayVar(&weights, "weight", nil, "Set a criterion weight first, as name=weight, repeatable")
	return cmd
}

type dashboardView struct {
	Scores   scoringtransport.DashboardResponse `json:"scores"`
	Pipeline transport.PipelineMetricsResponse  `json:"pipeline"`
}

func newDashboardCmd(s *Session, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show lead scores per bucket and the pipeline figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			scores, err := s.Scoring.Dashboard(ctx)
			if err != nil {
				return err
			}
			pipeline, err := s.Customers.PipelineMetrics(ctx)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, dashboardView{Scores: scores, Pipeline: pipeline})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDashboard(s, scores, pipeline))
			return nil
		},
	}
}
