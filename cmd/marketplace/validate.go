package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marketplace/client/internal/media/validator"
)

func validateCmd(g *globals) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check files against the upload rules without uploading",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			v := validator.New(validator.Rules{
				MaxBytes:       cfg.Upload.MaxBytes,
				AllowedTypes:   cfg.Upload.AllowedTypes,
				CheckExtension: true,
				SniffContent:   true,
			})

			var invalid int
			for _, path := range args {
				file, err := readFile(path, contentType)
				if err != nil {
					return err
				}
				res := v.Check(file)
				if res.OK {
					success(cmd.OutOrStdout(), "%s (%s, %d bytes)", path, res.ContentType, file.Size)
					continue
				}
				invalid++
				fmt.Fprintf(cmd.OutOrStdout(), "\033[31m✗\033[0m %s: %s\n", path, res.Reason)
			}
			if invalid > 0 {
				return fmt.Errorf("%d file(s) rejected", invalid)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "Declared content type (detected when empty)")
	return cmd
}
