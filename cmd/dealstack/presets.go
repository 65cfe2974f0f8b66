package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealstack/dealstack/internal/filter"
)

func highPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "high-points",
		Short: "Show deals in the 10000+ points bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return renderDeals(cmd, filter.Apply(store.All(), filter.HighPoints()))
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func activeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show deals whose validity window covers today",
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

			requireFlag := viper.GetBool("filter.require_expiry_flag")
			return renderDeals(cmd, filter.ActiveNow(store.All(), today, requireFlag))
		},
	}
	addTodayFlag(cmd)
	addFormatFlag(cmd)
	return cmd
}

func provinceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "province <code>",
		Short: "Show a province's active mid-tier point deals",
		Long: `Show deals for one province that sit in the 1000-9999 points bucket and
are valid today.

Example:
  dealstack province ON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := resolveToday(cmd)
			if err != nil {
				return err
			}

			store, cleanup, err := openDataset(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			results := filter.ProvinceElevated(store.All(), args[0], today)
			if len(results) == 0 {
				fmt.Printf("No active mid-tier deals in %s\n", args[0])
			}
			return renderDeals(cmd, results)
		},
	}
	addTodayFlag(cmd)
	addFormatFlag(cmd)
	return cmd
}
