package commands

import (
	"datachat/internal/config"
	"datachat/internal/dhis"
	"datachat/internal/logging"
	"datachat/internal/rpc"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	dhisClient dhis.Client
)

var rootCmd = &cobra.Command{
	Use:   "datachat",
	Short: "datachat turns DHIS2 analytics into chat-ready excerpts, charts and tables",
	Long: `A tool server that resolves relative period and organisation-unit selections,
fetches aggregate analytics from a DHIS2 instance and projects the result as
summary statistics, a chart-ready series set, a sortable table and a plain-text
data excerpt for chat assistants.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Initialize DHIS2 Client
		dhisClient = dhis.NewClient(cfg.DHIS2)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("datachat starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("Tool server starting Stdio loop")
		server := rpc.NewServer(dhisClient)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Stdio loop failed")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
