package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/filter"
	"github.com/dealstack/dealstack/internal/model"
)

func filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter the cached deals",
		Long: `Filter the cached deals by province, retailer, brand, savings, and
points. All conditions must hold at once; list-valued flags match any of
their values.

Examples:
  # Ontario deals from two chains
  dealstack filter --province ON --retailer "Shoppers Drug Mart" --retailer Rexall

  # Big-point offers on a brand
  dealstack filter --brand nivea --points 10000+

  # Deals saving at least 25%
  dealstack filter --save 25

  # Every concurrently-valid deal pair on the same product
  dealstack filter --magic-hour`,
		RunE: runFilter,
	}

	cmd.Flags().StringSliceP("province", "p", nil, "province codes to include (repeatable)")
	cmd.Flags().StringSliceP("retailer", "r", nil, "retailer names to include (repeatable)")
	cmd.Flags().StringP("brand", "b", "", "case-insensitive brand substring")
	cmd.Flags().IntP("save", "s", -1, "minimum save percentage")
	cmd.Flags().String("points", "", "points bucket (100-999, 1000-9999, 10000+)")
	cmd.Flags().Bool("magic-hour", false, "show overlapping significant deals instead")
	addTodayFlag(cmd)
	addFormatFlag(cmd)

	return cmd
}

func runFilter(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}

	today, err := resolveToday(cmd)
	if err != nil {
		return err
	}

	store, cleanup, err := openDataset(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	results := filter.Results(store, spec, today, magicConfigFromViper())

	if len(results) == 0 && spec.BrandSubstring != "" {
		if suggestion := filter.SuggestBrand(store.All(), spec.BrandSubstring); suggestion != "" {
			fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf("No deals matched; did you mean brand %q?", suggestion)))
		}
	}

	return renderDeals(cmd, results)
}

// specFromFlags translates the filter flags into a filter specification.
func specFromFlags(cmd *cobra.Command) (model.FilterSpec, error) {
	spec := model.NewFilterSpec()

	provinces, _ := cmd.Flags().GetStringSlice("province")
	spec.SetProvinces(provinces...)

	retailers, _ := cmd.Flags().GetStringSlice("retailer")
	spec.SetRetailers(retailers...)

	brand, _ := cmd.Flags().GetString("brand")
	spec.SetBrandSubstring(brand)

	save, _ := cmd.Flags().GetInt("save")
	spec.SetSaveThreshold(save)

	points, _ := cmd.Flags().GetString("points")
	if points != "" {
		bucket := model.PointsBucket(points)
		if !bucket.Valid() {
			return spec, fmt.Errorf("invalid points bucket %q: expected 100-999, 1000-9999, or 10000+", points)
		}
		spec.SetPointsBucket(bucket)
	}

	if magic, _ := cmd.Flags().GetBool("magic-hour"); magic {
		spec.MagicHour = true
	}

	return spec, nil
}
