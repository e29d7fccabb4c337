package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/mpsh/internal/config"
)

type rootFlags struct {
	configPath string
	dbPath     string
	debug      bool
	batch      bool
	quiet      bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "mpsh [commands...]",
	Short: "Interactive media search shell",
	Long: `mpsh searches for videos, playlists and feeds and plays them with an
external player. Arguments are run as commands before the prompt opens;
separate several with commas, and write ,, for a literal comma.

  mpsh /lofi beats, 1-5`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context(), flags, strings.Join(args, " "))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mpsh %s\n", Version)
		fmt.Println("Media player shell")
		fmt.Println("github.com/pders01/mpsh")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := flags.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Printf("Failed to generate config: %v\n", err)
			return
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to configuration file")
	pf.StringVar(&flags.dbPath, "db", "", "Path to database file (overrides config)")
	pf.BoolVar(&flags.debug, "debug", false, "Write debug logs to the log file")

	rootCmd.Flags().BoolVar(&flags.batch, "batch", false, "Run non-interactively; the first failing command exits with status 1")
	rootCmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Skip startup banner")

	// commands such as "-a 1" follow the first argument unparsed
	rootCmd.Flags().SetInterspersed(false)

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}
