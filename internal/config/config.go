// Package config provides configuration defaults and path utilities.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SetDefaults registers every configuration key with its default value.
// Flags and DEALSTACK_* environment variables override these.
func SetDefaults() {
	viper.SetDefault("data.source", "data/data.json")
	viper.SetDefault("database.path", "~/.local/share/dealstack/deals.db")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	viper.SetDefault("magichour.points_threshold", 1000)
	viper.SetDefault("magichour.save_threshold", 10)
	viper.SetDefault("magichour.pairing", "any")
	// Historical builds scoped magic hour to Shoppers Drug Mart; the scope is
	// now a knob and defaults to all retailers.
	viper.SetDefault("magichour.retailers", []string{})

	viper.SetDefault("filter.require_expiry_flag", false)

	viper.SetDefault("sheets.credentials_path", "~/.config/dealstack/credentials.json")
	viper.SetDefault("sheets.token_path", "~/.config/dealstack/token.json")
	viper.SetDefault("sheets.spreadsheet_name", "Dealstack Export")
}

// DatabasePath returns the configured deal-cache location with ~ and
// environment variables expanded.
func DatabasePath() string {
	return ExpandPath(viper.GetString("database.path"))
}

// DataSource returns the configured deal source, expanding paths but leaving
// URLs untouched.
func DataSource() string {
	source := viper.GetString("data.source")
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	return ExpandPath(source)
}

// ExpandPath expands a leading ~ and $VAR style environment variables in a
// file path.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
