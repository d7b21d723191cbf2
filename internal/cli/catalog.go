package cli

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/money"
)

func (a *app) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse products",
	}

	var (
		query, typ, platform, category string
		minPrice, maxPrice, sortBy     string
		inStock                        bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List products matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := url.Values{}
			v.Set("q", query)
			v.Set("type", typ)
			v.Set("platform", platform)
			v.Set("category", category)
			v.Set("min", minPrice)
			v.Set("max", maxPrice)
			v.Set("sort", sortBy)
			if inStock {
				v.Set("stock", "1")
			}
			filter := catalog.ParseFilter(v)

			products, err := a.catalog.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			// The backend may ignore some filters; apply them locally too.
			products = filter.Apply(products)
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return nil
			}
			writeProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
	lf := list.Flags()
	lf.StringVar(&query, "q", "", "Search name and category, ignoring accents")
	lf.StringVar(&typ, "type", "", "Product type")
	lf.StringVar(&platform, "platform", "", "Platform")
	lf.StringVar(&category, "category", "", "Exact category")
	lf.StringVar(&minPrice, "min", "", "Minimum price")
	lf.StringVar(&maxPrice, "max", "", "Maximum price")
	lf.BoolVar(&inStock, "in-stock", false, "Only products with stock")
	lf.StringVar(&sortBy, "sort", "", "recent, price_asc, price_desc or name")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeProduct(cmd.OutOrStdout(), *p)
			return nil
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.catalog.List(cmd.Context(), catalog.Filter{})
			if err != nil {
				return err
			}
			for _, c := range catalog.Categories(products) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show, categories)
	return cmd
}

func writeProducts(w io.Writer, products []domain.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPLATFORM\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Type, p.Platform, money.Format(p.Price, money.DefaultCurrency), stockLabel(p.Stock))
	}
	tw.Flush()
}

func writeProduct(w io.Writer, p domain.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name\t%s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(tw, "Description\t%s\n", p.Description)
	}
	fmt.Fprintf(tw, "Type\t%s\n", p.Type)
	fmt.Fprintf(tw, "Platform\t%s\n", p.Platform)
	if p.Category != "" {
		fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	}
	fmt.Fprintf(tw, "Price\t%s\n", money.Format(p.Price, money.DefaultCurrency))
	fmt.Fprintf(tw, "Stock\t%s\n", stockLabel(p.Stock))
	for i, img := range p.Images {
		label := "Image"
		if i == 0 {
			label = "Cover"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, img)
	}
	tw.Flush()
}

func stockLabel(stock *int) string {
	if stock == nil {
		return "-"
	}
	return strconv.Itoa(*stock)
}
