package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/export"
)

var (
	exportQuery    string
	exportLocation string
	exportFormat   string
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads for a query to CSV, JSON, or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.LeadsByQuery(ctx, exportQuery, exportLocation)
		if err != nil {
			return eris.Wrap(err, "load leads")
		}
		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found for this query. Run `leadgen-cli run` first.")
			return nil
		}

		dir := exportOut
		if dir == "" {
			dir = cfg.Export.Dir
		}
		exp, err := export.New(dir)
		if err != nil {
			return err
		}

		path, err := exp.Write(leads, format, exportQuery)
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d leads to %s\n", len(leads), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "query the leads were gathered for (required)")
	exportCmd.Flags().StringVar(&exportLocation, "location", "", "location the leads were gathered for (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv, json, or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default from config)")
	_ = exportCmd.MarkFlagRequired("query")
	_ = exportCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(exportCmd)
}
