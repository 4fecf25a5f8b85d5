package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/loamenum/pkg/trace"
)

var (
	verbose    bool
	configFile string
	cfg        *Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loamenum",
	Short: "Declarative enumerated attributes for document vaults",
	Long: `loamenum reads model declarations from a YAML schema and applies them to
documents stored as files, in SQLite or in memory. It lists allowed values,
validates documents, runs scopes and sets enum values from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: trace.ReplaceLevel,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		c, err := loadConfig(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Config file (default: loamenum.yaml in the vault root)")
	flags.String("vault", "", "Vault path (fs), database file (sqlite)")
	flags.String("adapter", "", "Storage adapter: fs, sqlite or memory")
	flags.String("schema", "", "Schema file or doublestar glob")
	flags.Bool("trace", false, "Log the caller of every generated member at FATAL level")
}
