package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"marketplace/client/internal/apperr"
	"marketplace/client/internal/models"
)

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProducts(w io.Writer, asJSON bool, products []models.Product) error {
	if asJSON {
		return printJSON(w, products)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSELLER")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, p.UserID)
	}
	return tw.Flush()
}

func printMedia(w io.Writer, asJSON bool, media []models.Media) error {
	if asJSON {
		return printJSON(w, media)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tTYPE\tBYTES\tURL")
	for _, m := range media {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.ID, m.OriginalFilename, m.ContentType, m.FileSize, m.URL)
	}
	return tw.Flush()
}

// describe renders classified errors the way a user should read them.
func describe(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "invalid input: " + apperr.Reason(err)
	case apperr.KindAuth:
		return "not allowed: " + apperr.Reason(err)
	case apperr.KindNotFound:
		return "not found: " + apperr.Reason(err)
	case apperr.KindNetwork:
		return "cannot reach the marketplace API: " + err.Error()
	case apperr.KindServer:
		return "server error: " + apperr.Reason(err)
	}
	return err.Error()
}
