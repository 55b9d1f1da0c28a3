package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/modtree"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "modtree",
	Short: "Runs trees of application modules",
	Long: `modtree starts a tree of modules described by a manifest, keeps it
running until an interrupt and tears it down in order.

A failure of any module while starting aborts the whole tree.`,
	SilenceUsage: true,
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides logging.level")
}

func loadConfig(ctx context.Context) (*modtree.Config, error) {
	cfg := modtree.DefaultConfig()
	if cfgFile != "" {
		loaded, err := modtree.LoadConfig(ctx, cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.Logging.ApplyEnv()
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newService(ctx context.Context, options ...modtree.Option) (*modtree.Service, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return modtree.New(append([]modtree.Option{modtree.WithConfig(cfg)}, options...)...)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
