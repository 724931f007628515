/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"strconv"

	"github.com/rclone/rclone/fs"
	"github.com/spf13/cobra"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
	"github.com/xzzpig/rclone-vfs/internal/rclone"
	"github.com/xzzpig/rclone-vfs/internal/vfs"
)

// aboutCmd represents the about command
var aboutCmd = &cobra.Command{
	Use:   "about <remote:>",
	Short: "Show quota information for a remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		remote, err := vfs.CreateRemote(ctx, args[0], rcloneConfig())
		if err != nil {
			return err
		}
		usage, err := rclone.GetQuota(ctx, remote.Fs())
		if err != nil {
			return err
		}

		for _, field := range []struct {
			msgID string
			value *int64
		}{
			{i18n.MsgAboutTotal, usage.Total},
			{i18n.MsgAboutUsed, usage.Used},
			{i18n.MsgAboutFree, usage.Free},
			{i18n.MsgAboutTrash, usage.Trashed},
			{i18n.MsgAboutOther, usage.Other},
		} {
			if field.value != nil {
				fmt.Fprintln(out, i18n.CtxWithData(ctx, field.msgID, map[string]any{"Value": fs.SizeSuffix(*field.value).String() + "B"}))
			}
		}
		if usage.Objects != nil {
			fmt.Fprintln(out, i18n.CtxWithData(ctx, i18n.MsgAboutObjs, map[string]any{"Value": strconv.FormatInt(*usage.Objects, 10)}))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}
