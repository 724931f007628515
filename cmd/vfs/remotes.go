/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xzzpig/rclone-vfs/internal/core/errs"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
)

var remotesProviders bool

// remotesCmd represents the remotes command
var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "List configured remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if remotesProviders {
			for _, p := range rclone.ListProviders() {
				fmt.Fprintf(out, "%-20s %s\n", p.Name, p.Description)
			}
			return nil
		}

		conf, err := vfs.ResolveConfig(rcloneConfig())
		if errors.Is(err, errs.ErrConfigNotFound) {
			fmt.Fprintln(out, i18n.Ctx(ctx, i18n.MsgNoRemotes))
			return nil
		}
		if err != nil {
			return err
		}
		if err := conf.Install(); err != nil {
			return err
		}

		infos, err := rclone.ListRemotesWithInfo()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(out, i18n.Ctx(ctx, i18n.MsgNoRemotes))
			return nil
		}

		fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgRemotes, map[string]any{"Count": len(infos)}))
		for _, info := range infos {
			if info.Remote != "" {
				fmt.Fprintf(out, "  %s (%s → %s)\n", info.Name, info.Type, info.Remote)
			} else {
				fmt.Fprintf(out, "  %s (%s)\n", info.Name, info.Type)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remotesCmd)
	remotesCmd.Flags().BoolVar(&remotesProviders, "providers", false, "list available backend types instead")
}
