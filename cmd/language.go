package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/catalog"
)

func init() {
	languageCmd.AddCommand(languageGetCmd, languageSetCmd)
	rootCmd.AddCommand(languageCmd)
}

// languageCmd represents the language command
var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Show or change the preferred catalog language",
}

var languageGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the preferred language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(svc.Language())
		return nil
	},
}

var languageSetCmd = &cobra.Command{
	Use:       "set <language>",
	Short:     "Store the preferred language (en-US or es-ES)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(catalog.English), string(catalog.Spanish)},
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := svc.SetLanguage(cmd.Context(), catalog.Language(args[0]))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Language set to %s\n", lang)
		return nil
	},
}
