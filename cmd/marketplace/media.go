package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"marketplace/client/internal/media/sniffer"
	"marketplace/client/internal/models"
)

func mediaCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage product images",
	}
	cmd.AddCommand(mediaListCmd(g), mediaUploadCmd(g), mediaDeleteCmd(g))
	return cmd
}

func mediaListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list <product-id>",
		Short: "List the images of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			list, err := a.Media.LoadForProduct(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printMedia(cmd.OutOrStdout(), g.jsonOutput, list)
		},
	}
}

func mediaUploadCmd(g *globals) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "upload <product-id> <file>...",
		Short: "Upload images to a product",
		Long: `Upload one or more images. Each file is checked locally first
(2MB ceiling; JPEG, PNG, GIF or WebP) and uploads run concurrently.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			productID := args[0]
			if _, err := a.Media.LoadForProduct(ctx, productID); err != nil {
				return err
			}

			type outcome struct {
				path  string
				media models.Media
				err   error
			}
			results := make(chan outcome, len(args)-1)
			for _, path := range args[1:] {
				go func(path string) {
					file, err := readFile(path, contentType)
					if err != nil {
						results <- outcome{path: path, err: err}
						return
					}
					m, err := a.Media.Upload(ctx, file, productID)
					results <- outcome{path: path, media: m, err: err}
				}(path)
			}

			var failed int
			for range args[1:] {
				r := <-results
				if r.err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.path, describe(r.err))
					continue
				}
				success(cmd.OutOrStdout(), "%s uploaded as %s", r.path, r.media.ID)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args)-1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "Declared content type (detected when empty)")
	return cmd
}

func mediaDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <media-id>",
		Short: "Delete an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			if err := a.Media.Delete(commandContext(cmd), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "deleted %s", args[0])
			return nil
		},
	}
}

// readFile loads path and fills in the content type from the bytes, then the
// extension, when none is given.
func readFile(path, contentType string) (models.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.File{}, err
	}
	if contentType == "" {
		if res, err := sniffer.DetectHead(data); err == nil {
			contentType = res.MIME
		} else {
			contentType = sniffer.MIMEFromExtension(path)
		}
	}
	return models.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        int64(len(data)),
		Content:     data,
	}, nil
}
