package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/filter"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/pkg/serpapi"
	"github.com/sells-group/leadgen-cli/pkg/yelp"
)

var (
	runQuery        string
	runLocation     string
	runSources      []string
	runThreshold    int
	runMinScore     float64
	runRequireEmail bool
	runCategories   []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Gather, deduplicate, enrich, and score leads for a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		if cmd.Flags().Changed("threshold") {
			cfg.Dedupe.Threshold = runThreshold
		}

		p, err := pipeline.New(cfg, st)
		if err != nil {
			return eris.Wrap(err, "build pipeline")
		}

		for _, name := range runSources {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "google_maps", "google":
				if cfg.SerpAPI.Key == "" {
					return eris.New("serpapi key is required for the google_maps source (LEADGEN_SERPAPI_KEY)")
				}
				opts := []serpapi.Option{}
				if cfg.SerpAPI.BaseURL != "" {
					opts = append(opts, serpapi.WithBaseURL(cfg.SerpAPI.BaseURL))
				}
				p.AddSource("google_maps", serpapi.NewClient(cfg.SerpAPI.Key, opts...))
			case "yelp":
				opts := []yelp.Option{}
				if cfg.Yelp.BaseURL != "" {
					opts = append(opts, yelp.WithBaseURL(cfg.Yelp.BaseURL))
				}
				p.AddSource("yelp", yelp.NewScraper(opts...))
			default:
				return eris.Errorf("unknown source %q (want google_maps or yelp)", name)
			}
		}

		result, err := p.Run(ctx, runQuery, runLocation, filter.Options{
			MinScore:     runMinScore,
			RequireEmail: runRequireEmail,
			Categories:   runCategories,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("run_id", result.RunID),
			zap.Int("leads", len(result.Leads)),
			zap.Float64("top_score", result.Summary.TopScore),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Summary)
	},
}

func init() {
	runCmd.Flags().StringVar(&runQuery, "query", "", "business search query, e.g. \"plumbers\" (required)")
	runCmd.Flags().StringVar(&runLocation, "location", "", "search location, e.g. \"Brooklyn, NY\" (required)")
	runCmd.Flags().StringSliceVar(&runSources, "sources", []string{"google_maps"}, "lead sources: google_maps, yelp")
	runCmd.Flags().IntVar(&runThreshold, "threshold", 0, "fuzzy dedup similarity threshold (0-100, overrides config)")
	runCmd.Flags().Float64Var(&runMinScore, "min-score", 0, "drop leads scoring below this value")
	runCmd.Flags().BoolVar(&runRequireEmail, "require-email", false, "keep only leads with an extracted email")
	runCmd.Flags().StringSliceVar(&runCategories, "categories", nil, "keep only leads in these categories")
	_ = runCmd.MarkFlagRequired("query")
	_ = runCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(runCmd)
}
