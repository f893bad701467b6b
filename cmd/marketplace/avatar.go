package main

import (
	"github.com/spf13/cobra"
)

func avatarCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Manage the signed-in seller's avatar",
	}

	var contentType string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a new avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readFile(args[0], contentType)
			if err != nil {
				return err
			}
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			resp, err := a.Session.UploadAvatar(commandContext(cmd), file)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "%s: %s", resp.Message, resp.Avatar)
			return nil
		},
	}
	upload.Flags().StringVar(&contentType, "type", "", "Declared content type (detected when empty)")

	cmd.AddCommand(upload)
	return cmd
}
