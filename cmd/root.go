package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/alsobought-cli/internal/config"
	"github.com/KaramelBytes/alsobought-cli/internal/logger"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "alsobought",
	Short: "AlsoBought CLI: \"customers who bought X also bought\" from order exports",
	Long: `AlsoBought reads a marketplace order export (CSV or XLSX), keeps repeat buyers
and the most popular items, and ranks the items whose purchase pattern
correlates best with a chosen item.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.alsobought/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	if debug {
		cfg.LogLevel = "debug"
	}
}

// settings returns the loaded configuration, or the defaults when none could
// be loaded.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Default()
}

// newLogger builds the process logger from log_env and log_level.
func newLogger(c *cfgpkg.Global) (*zap.Logger, error) {
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	return logger.NewLogger(c.LogEnv, level)
}
