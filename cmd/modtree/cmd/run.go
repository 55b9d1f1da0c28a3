package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var manifestURL string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts the module tree described by a manifest",
	Long: `Starts every module of the manifest concurrently and blocks until the
tree is killed by a startup failure or a configured signal.`,
	RunE: runTree,
}

func init() {
	runCmd.Flags().StringVarP(&manifestURL, "manifest", "m", "", "manifest location")
	_ = runCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(runCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	srv, err := newService(ctx)
	if err != nil {
		printError("failed to create service", err)
		return err
	}
	if _, err = srv.Assemble(ctx, manifestURL); err != nil {
		printError("failed to assemble tree", err)
		return err
	}
	return srv.Run(ctx)
}
