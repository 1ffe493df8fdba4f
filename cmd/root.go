package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	cfgpkg "github.com/KaramelBytes/sosdash/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sosdash",
	Short: "Volunteer analytics for Students of Service exports",
	Long: `sosdash cleans the Students of Service volunteer workbook (Clients, Service Hours
and optional survey sheets) and answers questions about it: frequency tables,
cross-tabulations, population statistics, confidence intervals and activity
over time. Run "sosdash serve" to expose the same analyses over HTTP.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sosdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	if !debug {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
}

// settings returns the loaded configuration, or defaults when loading failed.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{}
}
