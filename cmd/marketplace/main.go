package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marketplace/client/internal/app"
	"marketplace/client/internal/config"
	"marketplace/client/internal/log"
)

var version = "dev"

type globals struct {
	configPath string
	logLevel   string
	baseURL    string
	jsonOutput bool
}

func main() {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "marketplace",
		Short: "Browse the marketplace and manage listings from the terminal",
		Long: `marketplace talks to the marketplace API on behalf of one user.

The session is stored locally (see storage.backend) so later commands
reuse the login. Sellers can manage products and their images.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to marketplace.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Override logging.level")
	rootCmd.PersistentFlags().StringVar(&g.baseURL, "api", "", "Override api.baseurl")
	rootCmd.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		loginCmd(g),
		registerCmd(g),
		logoutCmd(g),
		whoamiCmd(g),
		productsCmd(g),
		mediaCmd(g),
		avatarCmd(g),
		validateCmd(g),
		watchCmd(g),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", describe(err))
		os.Exit(1)
	}
}

func (g *globals) config() (*config.AppConfig, error) {
	cfg, err := config.LoadFile(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.baseURL != "" {
		cfg.API.BaseURL = g.baseURL
	}
	return cfg, nil
}

// app returns the process-wide client for cmd.
func (g *globals) app(cmd *cobra.Command) (*app.App, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	logger := log.NewWithWriter(os.Stderr, cfg.Environment, cfg.Logging.Level)
	return app.Instance(commandContext(cmd), cfg, logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
