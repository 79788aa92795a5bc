package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/config"
	"github.com/s0up4200/reelscout/service"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	svc     *service.Service

	// Global flags
	languageFlag string
	jsonOutput   bool
)

// skipInit marks commands that run without config or service.
const skipInit = "skip-init"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelscout",
	Short: "Browse the TMDB movie catalog from the terminal",
	Long: `reelscout browses the TMDB movie catalog: trending and upcoming titles,
search as you type, genre discovery, movie details and a local favorites list.

Set TMDB_API_KEY or tmdb.api_key in the config file before use.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.reelscout/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "language for this run (en-US or es-ES), does not change the stored preference")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// initializeApp loads the configuration and starts the catalog service
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipInit] == "true" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	opts := service.Options{
		Config:         cfg,
		Logger:         logger,
		OnSearchChange: notifySearch,
	}
	if languageFlag != "" {
		opts.Language, err = catalog.ParseLanguage(languageFlag)
		if err != nil {
			return err
		}
	}

	svc, err = service.Init(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	logger.Debug().
		Str("language", string(svc.Language())).
		Str("storage", cfg.Storage.Backend).
		Msg("Initialized")

	return nil
}

// shutdownApp releases the service opened by initializeApp
func shutdownApp(cmd *cobra.Command, args []string) error {
	if svc == nil {
		return nil
	}
	err := svc.Dispose()
	svc = nil
	return err
}
