package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm1l43s/movies/cmd/users"
	"github.com/sm1l43s/movies/internal/config"
)

var (
	cfg     *config.Config
	logger  *logrus.Logger
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "movies",
	Short: "Movie catalog API server",
	Long: `Movies serves a REST API over a catalog of movies, staff and reviews,
with bearer-token accounts, per-route privileges and a retrying upstream relay.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = newLogger(cfg)
		if err != nil {
			return err
		}
		return nil
	},
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	l.SetLevel(level)
	return l, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: MOVIES_DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: MOVIES_SERVER_ADDR)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: MOVIES_DEBUG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (env: MOVIES_LOG_LEVEL)")

	_ = viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("db-url"))
	_ = viper.BindPFlag("server_addr", rootCmd.PersistentFlags().Lookup("server-addr"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
