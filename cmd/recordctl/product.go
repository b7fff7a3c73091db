package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/records"
	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
)

func newProductCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage products",
	}
	cmd.AddCommand(
		newProductListCmd(c),
		newProductGetCmd(c),
		newProductAddCmd(c),
		newProductUpdateCmd(c),
		newProductDeleteCmd(c),
	)
	return cmd
}

func newProductListCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Products.List(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				list = records.FilterByMaxID(list, limit)
			}
			return c.printProducts(cmd, list)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "only products whose id is <= limit")
	return cmd
}

func newProductGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, found, err := c.app.Products.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: product %d", store.ErrNotFound, id)
			}
			return c.printProducts(cmd, []types.Product{p})
		},
	}
}

func newProductAddCmd(c *cli) *cobra.Command {
	var p types.Product
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := c.app.Products.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.printProducts(cmd, []types.Product{stored})
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Title, "title", "", "product title")
	f.StringVar(&p.Description, "description", "", "product description")
	f.Float64Var(&p.Price, "price", 0, "unit price")
	f.StringVar(&p.Thumbnail, "thumbnail", "", "thumbnail path or URL")
	f.StringVar(&p.Code, "code", "", "unique product code")
	f.IntVar(&p.Stock, "stock", 0, "units in stock")
	return cmd
}

func newProductUpdateCmd(c *cli) *cobra.Command {
	var p types.Product
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch types.ProductPatch
			f := cmd.Flags()
			if f.Changed("title") {
				patch.Title = &p.Title
			}
			if f.Changed("description") {
				patch.Description = &p.Description
			}
			if f.Changed("price") {
				patch.Price = &p.Price
			}
			if f.Changed("thumbnail") {
				patch.Thumbnail = &p.Thumbnail
			}
			if f.Changed("code") {
				patch.Code = &p.Code
			}
			if f.Changed("stock") {
				patch.Stock = &p.Stock
			}

			updated, err := c.app.Products.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return c.printProducts(cmd, []types.Product{updated})
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Title, "title", "", "product title")
	f.StringVar(&p.Description, "description", "", "product description")
	f.Float64Var(&p.Price, "price", 0, "unit price")
	f.StringVar(&p.Thumbnail, "thumbnail", "", "thumbnail path or URL")
	f.StringVar(&p.Code, "code", "", "unique product code")
	f.IntVar(&p.Stock, "stock", 0, "units in stock")
	return cmd
}

func newProductDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Products.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d deleted\n", id)
			return nil
		},
	}
}
