package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/config"
)

var (
	configPath  string
	configForce bool
)

func init() {
	configInitCmd.Flags().StringVar(&configPath, "path", "", "where to write the file (default ~/.reelscout/config.yaml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the default settings",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			dir, err := config.Dir()
			if err != nil {
				return fmt.Errorf("failed to locate home directory: %w", err)
			}
			path = filepath.Join(dir, "config.yaml")
		}

		if err := config.WriteDefault(path, configForce); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", path)
		fmt.Println("Edit tmdb.api_key, or export TMDB_API_KEY, before running other commands.")
		return nil
	},
}
