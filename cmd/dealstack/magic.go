package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/magichour"
)

func magicHourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magic-hour",
		Short: "Find products with overlapping significant deals",
		Long: `Find products where two or more significant deals are valid at the same
time today. A deal is significant when it carries a large points reward or a
large save percentage.

Examples:
  # Default thresholds
  dealstack magic-hour

  # Tighter thresholds, points-vs-save pairs only
  dealstack magic-hour --points-threshold 5000 --save-threshold 20 --cross-type

  # Restrict to one chain, as of a specific day
  dealstack magic-hour --retailer-scope "shoppers" --today 2026-02-14`,
		RunE: runMagicHour,
	}

	cmd.Flags().Int("points-threshold", 0, "minimum points for significance (default from config)")
	cmd.Flags().Int("save-threshold", 0, "minimum save percentage for significance (default from config)")
	cmd.Flags().Bool("cross-type", false, "require a points deal paired with a save deal")
	cmd.Flags().StringSlice("retailer-scope", nil, "retailer name substrings to include")
	addTodayFlag(cmd)
	addFormatFlag(cmd)

	return cmd
}

func runMagicHour(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := magicConfigFromViper()
	if v, _ := cmd.Flags().GetInt("points-threshold"); v > 0 {
		cfg.PointsThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("save-threshold"); v > 0 {
		cfg.SaveThreshold = v
	}
	if cross, _ := cmd.Flags().GetBool("cross-type"); cross {
		cfg.Pairing = magichour.PairCrossType
	}
	if scope, _ := cmd.Flags().GetStringSlice("retailer-scope"); len(scope) > 0 {
		cfg.RetailerScope = scope
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

	results := magichour.Find(store.All(), today, cfg)
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("No magic hour right now"))
	} else {
		fmt.Fprintln(os.Stderr, cli.MagicIcon+" "+cli.FormatSuccess(fmt.Sprintf("%d deals in magic hour", len(results))))
	}

	return renderDeals(cmd, results)
}
