package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/modtree"
	"github.com/viant/modtree/logger"
	"github.com/viant/modtree/unit"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Validates a manifest and prints its units",
	RunE:  printTree,
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Lists available hooks",
	RunE:  listHooks,
}

func init() {
	treeCmd.Flags().StringVarP(&manifestURL, "manifest", "m", "", "manifest location")
	_ = treeCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(hooksCmd)
}

func printTree(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	srv, err := newService(ctx, modtree.WithLogger(logger.Nop()))
	if err != nil {
		return err
	}
	if _, err = srv.Assemble(ctx, manifestURL); err != nil {
		printError("invalid manifest", err)
		return err
	}
	out := cmd.OutOrStdout()
	unit.Walk(srv.Root(), func(depth int, u unit.Unit) bool {
		kind := "leaf"
		if u.IsContainer() {
			kind = "composite"
		}
		fmt.Fprintf(out, "%s%s (%s)\n", strings.Repeat("  ", depth), u.Name(), kind)
		return true
	})
	return nil
}

func listHooks(cmd *cobra.Command, args []string) error {
	srv, err := newService(context.Background(), modtree.WithLogger(logger.Nop()))
	if err != nil {
		return err
	}
	for _, name := range srv.Registry().Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
