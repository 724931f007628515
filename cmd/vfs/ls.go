/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
)

var lsFilters []string

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List contents of a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if err := rclone.ValidateFilterRules(lsFilters); err != nil {
			return err
		}

		fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgListing, map[string]any{"Path": args[0]}))

		cwd, err := vfs.Begin(ctx, args[0], rcloneConfig())
		if err != nil {
			return err
		}
		listing, err := cwd.Ls(ctx, lsFilters...)
		if err != nil {
			return err
		}

		printBlock(out, i18n.CtxWithData(ctx, i18n.MsgDirectories, map[string]any{"Count": len(listing.Dirs)}), listing.Dirs)
		printBlock(out, i18n.CtxWithData(ctx, i18n.MsgFiles, map[string]any{"Count": len(listing.Files)}), listing.Files)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().StringArrayVar(&lsFilters, "filter", nil, `rclone filter rule, e.g. "- *.tmp" (repeatable)`)
}

// printBlock prints a header followed by the indented names, or nothing
// when names is empty.
func printBlock(out io.Writer, header string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(out, header)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
}
