package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"datachat/internal/analytics"
	"datachat/internal/dhis"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeItems           []string
	analyzePeriods         []string
	analyzeOrgUnit         string
	analyzeIncludeChildren bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one or more analyses and print the projections as JSON",
	Long: `Runs the full selection-to-projection pipeline once per --period value and
prints each result as a JSON document. Multiple periods run concurrently; the
pipeline holds no shared state between analyses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeOrgUnit == "" {
			return fmt.Errorf("--org-unit is required")
		}

		items := make([]any, len(analyzeItems))
		for i, id := range analyzeItems {
			items[i] = id
		}

		selection := analytics.OrgUnitSelection{
			Unit:            &dhis.OrgUnit{ID: analyzeOrgUnit},
			IncludeChildren: analyzeIncludeChildren,
		}
		switch analyzeOrgUnit {
		case analytics.TokenUserOrgUnit, analytics.TokenUserOrgUnitChildren, analytics.TokenUserOrgUnitGrandchildren:
			selection = analytics.OrgUnitSelection{Token: analyzeOrgUnit, IncludeChildren: analyzeIncludeChildren}
		}

		pipeline := analytics.NewPipeline(dhisClient)
		results := make([]*analytics.Result, len(analyzePeriods))

		g, ctx := errgroup.WithContext(cmd.Context())
		for i, period := range analyzePeriods {
			i, period := i, period
			g.Go(func() error {
				result, err := pipeline.Run(ctx, analytics.Request{
					Items:   items,
					Period:  analytics.PeriodToken(period),
					OrgUnit: selection,
				})
				if err != nil {
					return fmt.Errorf("period %s: %w", period, err)
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Results print in flag order even though the runs were concurrent.
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, result := range results {
			if err := enc.Encode(result); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeItems, "items", nil, "data item identifiers (repeatable or comma-separated)")
	analyzeCmd.Flags().StringArrayVar(&analyzePeriods, "period", []string{string(analytics.Last12Months)}, "relative period token (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeOrgUnit, "org-unit", "", "organisation unit id or USER_ORGUNIT token")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeChildren, "include-children", false, "break down by the unit's direct children")
	_ = analyzeCmd.MarkFlagRequired("items")

	rootCmd.AddCommand(analyzeCmd)
}
