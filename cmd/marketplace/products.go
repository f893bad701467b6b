package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"marketplace/client/internal/models"
)

func productsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "Browse and manage products",
	}
	cmd.AddCommand(
		productsListCmd(g),
		productsGetCmd(g),
		productsMineCmd(g),
		productsSearchCmd(g),
		productsCreateCmd(g),
		productsUpdateCmd(g),
		productsDeleteCmd(g),
	)
	return cmd
}

func productsListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every product",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			list, err := a.Products.LoadAll(commandContext(cmd))
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), g.jsonOutput, list)
		},
	}
}

func productsGetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			p, err := a.Products.GetOne(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), g.jsonOutput, []models.Product{p})
		},
	}
}

func productsMineCmd(g *globals) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List products of the signed-in seller, or of --owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			if owner == "" {
				user := a.Session.User().Get()
				if user == nil {
					return errors.New("not signed in; pass --owner")
				}
				owner = user.ID
			}
			list, err := a.Products.GetByOwner(commandContext(cmd), owner)
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), g.jsonOutput, list)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner user id")
	return cmd
}

func productsSearchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Search products by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			list, err := a.Products.Search(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), g.jsonOutput, list)
		},
	}
}

type productFlags struct {
	name        string
	description string
	price       string
	quantity    int
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.description, "description", "", "Product description")
	cmd.Flags().StringVar(&f.price, "price", "0", "Price, e.g. 19.99")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "Units in stock")
}

func (f *productFlags) request() (models.ProductRequest, error) {
	price, err := decimal.NewFromString(f.price)
	if err != nil {
		return models.ProductRequest{}, errors.New("price must be a decimal number")
	}
	return models.ProductRequest{
		Name:        f.name,
		Description: f.description,
		Price:       price,
		Quantity:    f.quantity,
	}, nil
}

func productsCreateCmd(g *globals) *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product (sellers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			p, err := a.Products.Create(commandContext(cmd), req)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "created %s (%s)", p.Name, p.ID)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func productsUpdateCmd(g *globals) *cobra.Command {
	var f productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a product's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			p, err := a.Products.Update(commandContext(cmd), args[0], req)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "updated %s", p.ID)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func productsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			if err := a.Products.Delete(commandContext(cmd), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "deleted %s", args[0])
			return nil
		},
	}
}
