package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/common"
	"github.com/dealstack/dealstack/internal/config"
	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/magichour"
	"github.com/dealstack/dealstack/internal/model"
	"github.com/dealstack/dealstack/internal/storage"
)

// initStorage opens the deal cache and runs any pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openDataset loads the cached deals into an in-memory store.
func openDataset(ctx context.Context) (*dataset.Store, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	deals, err := store.GetDeals(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if len(deals) == 0 {
		cleanup()
		return nil, nil, common.NewUserError("no deals cached; run 'dealstack load' first", common.ErrNoDeals)
	}

	return dataset.NewStore(deals), cleanup, nil
}

// addTodayFlag registers the shared --today override used by date-sensitive
// commands.
func addTodayFlag(cmd *cobra.Command) {
	cmd.Flags().String("today", "", "override the reference date (YYYY-MM-DD)")
}

// resolveToday returns the reference date for expiry and overlap checks.
func resolveToday(cmd *cobra.Command) (time.Time, error) {
	value, _ := cmd.Flags().GetString("today")
	if value == "" {
		return time.Now(), nil
	}

	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today value %q: expected YYYY-MM-DD", value)
	}
	return day, nil
}

// magicConfigFromViper assembles the overlap detector tuning from config.
func magicConfigFromViper() magichour.Config {
	cfg := magichour.DefaultConfig()
	cfg.PointsThreshold = viper.GetInt("magichour.points_threshold")
	cfg.SaveThreshold = viper.GetInt("magichour.save_threshold")
	cfg.RetailerScope = viper.GetStringSlice("magichour.retailers")
	if strings.EqualFold(viper.GetString("magichour.pairing"), string(magichour.PairCrossType)) {
		cfg.Pairing = magichour.PairCrossType
	}
	return cfg
}

// renderDeals writes the result set in the requested format.
func renderDeals(cmd *cobra.Command, deals []model.Deal) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "":
		return cli.RenderTable(os.Stdout, deals, cli.DefaultColumns())
	case "json":
		return cli.RenderJSON(os.Stdout, deals)
	case "csv":
		return cli.RenderCSV(os.Stdout, deals, cli.DefaultColumns())
	default:
		return fmt.Errorf("invalid format %q: expected table, json, or csv", format)
	}
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "table", "output format (table, json, csv)")
}
