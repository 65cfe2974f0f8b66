package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealstack/dealstack/internal/cli"
	"github.com/dealstack/dealstack/internal/common"
	"github.com/dealstack/dealstack/internal/config"
	"github.com/dealstack/dealstack/internal/filter"
	"github.com/dealstack/dealstack/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered deals to Google Sheets",
		Long: `Export a filtered result set to a Google Sheets spreadsheet. Accepts the
same filter flags as 'dealstack filter'.

Authentication uses GOOGLE_SHEETS_* environment variables when set, and
falls back to an interactive OAuth2 flow with credentials from
sheets.credentials_path.

Examples:
  # Export everything
  dealstack export

  # Export the current magic hour to a named spreadsheet
  dealstack export --magic-hour --spreadsheet-name "Magic Hour"`,
		RunE: runExport,
	}

	cmd.Flags().StringSliceP("province", "p", nil, "province codes to include (repeatable)")
	cmd.Flags().StringSliceP("retailer", "r", nil, "retailer names to include (repeatable)")
	cmd.Flags().StringP("brand", "b", "", "case-insensitive brand substring")
	cmd.Flags().IntP("save", "s", -1, "minimum save percentage")
	cmd.Flags().String("points", "", "points bucket (100-999, 1000-9999, 10000+)")
	cmd.Flags().Bool("magic-hour", false, "export overlapping significant deals instead")
	cmd.Flags().String("spreadsheet-name", "", "title for a newly created spreadsheet")
	addTodayFlag(cmd)

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
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
	if len(results) == 0 {
		return fmt.Errorf("nothing to export: no deals matched")
	}

	sheetsCfg, err := buildSheetsConfig(cmd)
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, sheetsCfg, slog.Default())
	if err != nil {
		return err
	}

	lastLoad, err := storageSource(ctx)
	if err != nil {
		return err
	}

	summary := sheets.ExportSummary{
		GeneratedAt: today,
		Source:      lastLoad,
		Filter:      spec.Describe(),
	}

	if err := writer.Write(ctx, results, summary); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d deals", len(results))))
	return nil
}

// buildSheetsConfig assembles writer credentials, preferring environment
// variables and falling back to the interactive OAuth2 flow.
func buildSheetsConfig(cmd *cobra.Command) (sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		clientID, clientSecret, credErr := readCredentialsFile(config.ExpandPath(viper.GetString("sheets.credentials_path")))
		if credErr != nil {
			return cfg, credErr
		}

		token, tokenErr := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenFile:    config.ExpandPath(viper.GetString("sheets.token_path")),
		})
		if tokenErr != nil {
			return cfg, fmt.Errorf("authentication failed: %w", tokenErr)
		}

		cfg.ClientID = clientID
		cfg.ClientSecret = clientSecret
		cfg.RefreshToken = token.RefreshToken
	}

	if cfg.SpreadsheetName == "" {
		cfg.SpreadsheetName = viper.GetString("sheets.spreadsheet_name")
	}
	if name, _ := cmd.Flags().GetString("spreadsheet-name"); name != "" {
		cfg.SpreadsheetName = name
	}

	return cfg, nil
}

// readCredentialsFile extracts the OAuth2 client from a Google credentials
// JSON file, accepting both "installed" and "web" application types.
func readCredentialsFile(path string) (clientID, clientSecret string, err error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return "", "", fmt.Errorf("%w: credentials file %s: %v", common.ErrMissingConfig, path, err)
	}

	var creds struct {
		Installed struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		} `json:"installed"`
		Web struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		} `json:"web"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", "", fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if creds.Installed.ClientID != "" {
		return creds.Installed.ClientID, creds.Installed.ClientSecret, nil
	}
	if creds.Web.ClientID != "" {
		return creds.Web.ClientID, creds.Web.ClientSecret, nil
	}
	return "", "", fmt.Errorf("credentials file %s has no OAuth2 client", path)
}

// storageSource reports where the cached deals came from.
func storageSource(ctx context.Context) (string, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	load, err := store.GetLastLoad(ctx)
	if err != nil || load == nil {
		return "unknown", nil
	}
	return load.Source, nil
}
