package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
)

func newCriteriaCmd(s *Session, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "Inspect and change the scoring criteria of this session",
	}
	cmd.AddCommand(newCriteriaListCmd(s, opts))
	cmd.AddCommand(newCriteriaValidateCmd(s, opts))
	cmd.AddCommand(newCriteriaAddCmd(s, opts))
	cmd.AddCommand(newCriteriaEditCmd(s, opts))
	cmd.AddCommand(newCriteriaWeightCmd(s, opts))
	cmd.AddCommand(newCriteriaDeleteCmd(s, opts))
	cmd.AddCommand(newCriteriaExportCmd(s))
	return cmd
}

func newCriteriaListCmd(s *Session, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the active criteria in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := s.Scoring.ListCriteria(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, list)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCriteriaList(s.Format, list))
			return nil
		},
	}
}

func newCriteriaValidateCmd(s *Session, opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report problems in the active criteria without changing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := s.Scoring.ValidateCriteria(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				if err := renderJSON(cmd, resp); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderValidation(resp))
			}
			if strict && !resp.Valid {
				return apperr.Validation(fmt.Sprintf("criteria set has %d issue(s)", len(resp.Issues)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any issue is found")
	return cmd
}

func newCriteriaAddCmd(s *Session, opts *rootOptions) *cobra.Command {
	var (
		req        transport.CreateCriterionRequest
		categories []string
		ranges     []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a criterion to the active set",
		Long:  "Append a criterion. Weights of the other criteria are left as they are.",
		Example: `  clientflow criteria add --name "Company Size" --description "Employees" \
    --type range --attribute companySize --weight 20 \
    --range 1-50=20 --range 51-=80:Large`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, raw := range categories {
				c, err := parseCategory(raw)
				if err != nil {
					return err
				}
				req.Categories = append(req.Categories, c)
			}
			for _, raw := range ranges {
				r, err := parseRange(raw)
				if err != nil {
					return err
				}
				req.Ranges = append(req.Ranges, r)
			}

			created, err := s.Scoring.AddCriterion(cmd.Context(), req)
			if err != nil {
				return err
			}
			return renderCriterionResult(cmd, opts, "Added", created)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Description, "description", "", "What the criterion measures")
	cmd.Flags().StringVar(&req.Type, "type", "", "categorical or range")
	cmd.Flags().StringVar(&req.Attribute, "attribute", "", "companySize, dealValue, leadSource, engagementLevel or responseTime")
	cmd.Flags().IntVar(&req.Weight, "weight", 0, "Weight in percent (0-100)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category as value=score[:label], repeatable")
	cmd.Flags().StringArrayVar(&ranges, "range", nil, "Range as min-max=score[:label], repeatable; empty max is unbounded")
	return cmd
}

func newCriteriaEditCmd(s *Session, opts *rootOptions) *cobra.Command {
	var (
		name, description string
		weight            int
		categories        []string
		ranges            []string
	)

	cmd := &cobra.Command{
		Use:   "edit <name-or-id>",
		Short: "Change fields of one criterion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := s.Scoring.ResolveCriterion(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var req transport.UpdateCriterionRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("weight") {
				req.Weight = &weight
			}
			for _, raw := range categories {
				c, err := parseCategory(raw)
				if err != nil {
					return err
				}
				req.Categories = append(req.Categories, c)
			}
			for _, raw := range ranges {
				r, err := parseRange(raw)
				if err != nil {
					return err
				}
				req.Ranges = append(req.Ranges, r)
			}

			updated, err := s.Scoring.EditCriterion(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return renderCriterionResult(cmd, opts, "Updated", updated)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().IntVar(&weight, "weight", 0, "New weight in percent (0-100)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Replace the categories, value=score[:label], repeatable")
	cmd.Flags().StringArrayVar(&ranges, "range", nil, "Replace the ranges, min-max=score[:label], repeatable")
	return cmd
}

func newCriteriaWeightCmd(s *Session, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "weight <name-or-id> <weight>",
		Short: "Set the weight of one criterion",
		Long:  "Set the weight of one criterion. The other weights are not renormalized.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.Atoi(args[1])
			if err != nil {
				return apperr.BadRequest(fmt.Sprintf("weight %q is not a whole number", args[1]))
			}
			id, err := s.Scoring.ResolveCriterion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			updated, err := s.Scoring.SetWeight(cmd.Context(), id, weight)
			if err != nil {
				return err
			}
			return renderCriterionResult(cmd, opts, "Reweighted", updated)
		},
	}
}

func newCriteriaDeleteCmd(s *Session, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Remove a criterion from the active set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := s.Scoring.ResolveCriterion(ctx, args[0])
			if err != nil {
				return err
			}
			if err := s.Scoring.DeleteCriterion(ctx, id); err != nil {
				return err
			}
			list, err := s.Scoring.ListCriteria(ctx)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, list)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			fmt.Fprint(cmd.OutOrStdout(), renderCriteriaList(s.Format, list))
			return nil
		},
	}
}

func newCriteriaExportCmd(s *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the active criteria as a YAML criteria file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := s.Scoring.ExportCriteria(cmd.Context())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func renderCriterionResult(cmd *cobra.Command, opts *rootOptions, verb string, c transport.CriterionResponse) error {
	if opts.jsonOutput {
		return renderJSON(cmd, c)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, titleStyle.Render(c.Name))
	fmt.Fprint(cmd.OutOrStdout(), renderCriterion(c))
	return nil
}
