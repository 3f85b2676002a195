package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var (
	leadsQuery    string
	leadsLocation string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads for a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.LeadsByQuery(ctx, leadsQuery, leadsLocation)
		if err != nil {
			return eris.Wrap(err, "load leads")
		}

		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found for this query.")
			return nil
		}

		formatLeadsList(os.Stdout, leads)
		return nil
	},
}

func formatLeadsList(w io.Writer, leads []model.Lead) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tRATING\tREVIEWS\tREACHABLE\tEMAIL\tSCORE")
	for _, lead := range leads {
		rating := "-"
		if lead.Rating != nil {
			rating = fmt.Sprintf("%.1f", *lead.Rating)
		}
		reviews := "-"
		if lead.ReviewCount != nil {
			reviews = fmt.Sprintf("%d", *lead.ReviewCount)
		}
		email := lead.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%.1f\n",
			lead.Name, lead.Category, rating, reviews, lead.Reachable, email, lead.Score)
	}
	_ = tw.Flush()
}

func init() {
	leadsCmd.Flags().StringVar(&leadsQuery, "query", "", "query the leads were gathered for (required)")
	leadsCmd.Flags().StringVar(&leadsLocation, "location", "", "location the leads were gathered for (required)")
	_ = leadsCmd.MarkFlagRequired("query")
	_ = leadsCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(leadsCmd)
}
