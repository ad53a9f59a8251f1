package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	customerssvc "clientflow_backend/internal/customers/service"
	"clientflow_backend/internal/customers/transport"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/format"
	"clientflow_backend/platform/phone"

	"github.com/google/uuid"
)

func newCustomersCmd(s *Session, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Browse customers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "search [term]",
		Short: "Find customers by name, company or email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) > 0 {
				term = args[0]
			}
			list, err := s.Customers.SearchCustomers(cmd.Context(), term)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, list)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCustomers(list))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <customer-id-or-name>",
		Short: "Show one customer with its scoring history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			customer, err := s.Customers.ResolveCustomer(ctx, args[0])
			if err != nil {
				return err
			}
			resp, err := s.Customers.GetCustomer(ctx, customer.ID)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCustomer(s, resp))
			return nil
		},
	})
	return cmd
}

func newDealsCmd(s *Session, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Browse the pipeline and move deals between stages",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every deal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deals, err := s.Customers.ListDeals(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, deals)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDeals(s, deals))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "move <deal-id> <stage>",
		Short: "Move a deal to another pipeline stage",
		Long:  "Move a deal to lead, qualified, proposal, negotiation or closed. Moving a deal to its current stage changes nothing.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(strings.TrimSpace(args[0]))
			if err != nil {
				return apperr.BadRequest(fmt.Sprintf("deal id %q is not a UUID", args[0]))
			}
			deal, err := s.Customers.MoveDeal(cmd.Context(), transport.MoveDealRequest{DealID: id, Stage: args[1]})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderJSON(cmd, deal)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now in %s\n",
				titleStyle.Render(deal.Title), customerssvc.StageName(deal.Stage))
			return nil
		},
	})
	return cmd
}

func renderCustomers(list transport.CustomerListResponse) string {
	var b strings.Builder
	b.WriteString(heading(fmt.Sprintf("Customers (%d)", list.Total)))
	if list.Total == 0 {
		b.WriteString(dimStyle.Render("No customers match.") + "\n")
		return b.String()
	}
	t := newTable("Name", "Company", "Email", "Phone", "Status", "Score")
	for _, c := range list.Items {
		t.Row(c.Name, c.Company, c.Email, phone.Display(c.Phone), c.Status, fmt.Sprint(c.LeadScore))
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func renderCustomer(s *Session, c transport.CustomerResponse) string {
	var b strings.Builder
	header := titleStyle.Render(c.Name) + "  " + dimStyle.Render(c.Company) + "\n" +
		fmt.Sprintf("%s · %s · %s", c.Email, phone.Display(c.Phone), c.Status) + "\n" +
		fmt.Sprintf("%s employees · %s · %s engagement · replies in %dh",
			s.Format.Integer(c.CompanySize), c.LeadSource, c.EngagementLevel, c.ResponseTime)
	b.WriteString(boxStyle.Render(header) + "\n")

	t := newTable("Date", "Score", "Reason", "")
	for _, h := range c.ScoringHistory {
		t.Row(format.ShortDate(h.Date), fmt.Sprint(h.Score), h.Reason, dimStyle.Render(format.Relative(h.Date, s.Now())))
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func renderDeals(s *Session, deals []transport.DealResponse) string {
	var b strings.Builder
	b.WriteString(heading("Deals"))
	t := newTable("Title", "Customer", "Stage", "Value", "Probability", "Close")
	for _, d := range deals {
		t.Row(d.Title, d.CustomerName, customerssvc.StageName(d.Stage), s.Format.Currency(d.Value),
			fmt.Sprintf("%d%%", d.Probability), d.ExpectedCloseDate)
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}
