package main

import (
	"github.com/spf13/cobra"

	"github.com/dealstack/dealstack/internal/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the cached deals interactively",
		Long: `Browse the cached deals in an interactive table. Press m to toggle magic
hour, h for high-point deals, a to show everything, and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today, err := resolveToday(cmd)
			if err != nil {
				return err
			}

			store, cleanup, err := openDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			spec, err := specFromFlags(cmd)
			if err != nil {
				return err
			}

			return tui.Run(tui.Config{
				Store:     store,
				Spec:      spec,
				MagicHour: magicConfigFromViper(),
				Today:     today,
			})
		},
	}

	cmd.Flags().StringSliceP("province", "p", nil, "province codes to include (repeatable)")
	cmd.Flags().StringSliceP("retailer", "r", nil, "retailer names to include (repeatable)")
	cmd.Flags().StringP("brand", "b", "", "case-insensitive brand substring")
	cmd.Flags().IntP("save", "s", -1, "minimum save percentage")
	cmd.Flags().String("points", "", "points bucket (100-999, 1000-9999, 10000+)")
	cmd.Flags().Bool("magic-hour", false, "start with magic hour enabled")
	addTodayFlag(cmd)

	return cmd
}
