package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/config"
	"github.com/dealstack/dealstack/internal/dataset"
	"github.com/dealstack/dealstack/internal/model"
	"github.com/dealstack/dealstack/internal/normalize"
)

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [source]",
		Short: "Load a deal dataset into the local cache",
		Long: `Load a deal dataset from a local file or URL, normalize every record,
and replace the local cache with the result.

Examples:
  # Load the configured default source
  dealstack load

  # Load a local file
  dealstack load data/data.json

  # Load from a URL
  dealstack load https://example.com/deals.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLoad,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Normalize and report without writing the cache")
	addTodayFlag(cmd)

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source := config.DataSource()
	if len(args) > 0 {
		source = args[0]
		if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
			source = config.ExpandPath(source)
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	today, err := resolveToday(cmd)
	if err != nil {
		return err
	}

	slog.Info("🏷️  Loading deal dataset...", "source", source, "dry_run", dryRun)

	raws, err := dataset.NewSource(source).Fetch(ctx)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(raws),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Normalizing deals..."),
	)

	deals := make([]model.Deal, 0, len(raws))
	for i, raw := range raws {
		deals = append(deals, normalize.Record(raw, i, today))
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	malformed := 0
	for i := range deals {
		if deals[i].RawValidTo != "" || deals[i].RawValidFrom != "" {
			malformed++
		}
	}

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: %d deals normalized (%d with unparseable dates), cache not updated", len(deals), malformed)))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceDeals(ctx, source, deals); err != nil {
		return fmt.Errorf("failed to cache deals: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Loaded %d deals from %s at %s",
		len(deals), source, time.Now().Format("15:04:05"))))
	if malformed > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d deals had unparseable validity dates", malformed)))
	}

	return nil
}
