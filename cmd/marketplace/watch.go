package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"marketplace/client/internal/models"
)

func watchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the catalogue fresh and print changes until interrupted",
		Long: `watch runs the background jobs (catalogue refresh and session
expiry check) on the schedules in the jobs section of the config and
prints every change to the cached catalogue and the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			a.Products.Products().Subscribe(func(list []models.Product) {
				fmt.Fprintf(out, "catalogue: %d products\n", len(list))
			})
			a.Session.IsAuthenticated().Subscribe(func(signedIn bool) {
				fmt.Fprintf(out, "session: signed in = %t\n", signedIn)
			})
			a.Router.Current().Subscribe(func(route string) {
				fmt.Fprintf(out, "route: %s\n", route)
			})

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if _, err := a.Products.LoadAll(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "initial load: %s\n", describe(err))
			}
			if err := a.Jobs.Start(); err != nil {
				return err
			}
			defer a.Close()

			<-ctx.Done()
			fmt.Fprintln(out, "stopping")
			return nil
		},
	}
}
