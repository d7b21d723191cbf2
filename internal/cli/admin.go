package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/money"
	"storefront/internal/orders"
	"storefront/internal/service/checkout"
)

func (a *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage products and sales",
	}
	cmd.AddCommand(a.adminProductsCommand(), a.adminSalesCommand())
	return cmd
}

func (a *app) adminProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Create, edit and delete products",
	}

	var (
		in          catalog.ProductInput
		price       string
		patchFields productFlags
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product (three image URLs, cover first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := decimal.NewFromString(strings.TrimSpace(price))
			if err != nil {
				return fmt.Errorf("invalid price %q", price)
			}
			in.Price = d
			p, err := a.catalog.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	cf := create.Flags()
	cf.StringVar(&in.Name, "name", "", "Product name")
	cf.StringVar(&in.Description, "description", "", "Description")
	cf.StringVar(&in.Type, "type", "", "Product type")
	cf.StringVar(&in.Platform, "platform", "", "Platform")
	cf.StringVar(&in.Category, "category", "", "Category")
	cf.StringVar(&price, "price", "0", "Price")
	cf.IntVar(&in.Stock, "stock", 0, "Units in stock")
	cf.StringArrayVar(&in.Images, "image", nil, "Image URL, repeat three times")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := patchFields.patch(cmd)
			if err != nil {
				return err
			}
			p, err := a.catalog.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	patchFields.register(update)

	stock := &cobra.Command{
		Use:   "stock ID UNITS",
		Short: "Set the stock of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || units < 0 {
				return fmt.Errorf("invalid stock %q", args[1])
			}
			p, err := a.catalog.SetStock(cmd.Context(), args[0], units)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stock is now %s\n", p.Name, stockLabel(p.Stock))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, update, stock, del)
	return cmd
}

// productFlags backs "products update"; only flags the user set end up in
// the patch.
type productFlags struct {
	name, description, typ, platform, category, price string
	stock                                            int
	images                                           []string
}

func (f *productFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Product name")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringVar(&f.typ, "type", "", "Product type")
	fs.StringVar(&f.platform, "platform", "", "Platform")
	fs.StringVar(&f.category, "category", "", "Category")
	fs.StringVar(&f.price, "price", "", "Price")
	fs.IntVar(&f.stock, "stock", 0, "Units in stock")
	fs.StringArrayVar(&f.images, "image", nil, "Image URL, repeat to replace all images")
}

func (f *productFlags) patch(cmd *cobra.Command) (catalog.ProductPatch, error) {
	var patch catalog.ProductPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		patch.Name = &f.name
	}
	if changed("description") {
		patch.Description = &f.description
	}
	if changed("type") {
		t := strings.ToUpper(f.typ)
		patch.Type = &t
	}
	if changed("platform") {
		p := strings.ToUpper(f.platform)
		patch.Platform = &p
	}
	if changed("category") {
		patch.Category = &f.category
	}
	if changed("price") {
		d, err := decimal.NewFromString(strings.TrimSpace(f.price))
		if err != nil {
			return patch, fmt.Errorf("invalid price %q", f.price)
		}
		patch.Price = &d
	}
	if changed("stock") {
		patch.Stock = &f.stock
	}
	if changed("image") {
		patch.Images = f.images
	}
	return patch, nil
}

func (a *app) adminSalesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Review orders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders with their products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sales, err := a.orders.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sales) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sales yet.")
				return nil
			}
			enriched := orders.NewEnricher(a.catalog, a.logger.Named("enricher")).Enrich(cmd.Context(), sales)
			writeSales(cmd.OutOrStdout(), enriched)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.orders.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enriched := orders.NewEnricher(a.catalog, a.logger.Named("enricher")).Enrich(cmd.Context(), []domain.Sale{*s})
			writeSales(cmd.OutOrStdout(), enriched)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an order to PENDING, PAID or CANCELLED",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := domain.ParseSaleStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			s, err := a.orders.UpdateStatus(cmd.Context(), args[0], st)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%s is now %s\n", checkout.ShortID(s.ID), s.Status)
			return nil
		},
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Totals by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sales, err := a.orders.List(cmd.Context())
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), orders.Summarize(sales))
			return nil
		},
	}

	cmd.AddCommand(list, show, status, summary)
	return cmd
}

func writeSales(w io.Writer, sales []orders.EnrichedSale) {
	for _, s := range sales {
		fmt.Fprintf(w, "#%s  %s  %s <%s>  %s\n", checkout.ShortID(s.ID), s.Status,
			s.Customer.Name, s.Customer.Email, money.Format(s.Total, money.DefaultCurrency))
		for _, it := range s.Items {
			fmt.Fprintf(w, "    %s x%d  %s\n", it.Details.Name, it.Quantity, money.Format(it.UnitPrice, money.DefaultCurrency))
		}
	}
}

func writeSummary(w io.Writer, s orders.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Orders\t%d\n", s.Count)
	fmt.Fprintf(tw, "Paid\t%s\n", money.Format(s.PaidTotal, money.DefaultCurrency))
	fmt.Fprintf(tw, "Pending\t%s\n", money.Format(s.PendingTotal, money.DefaultCurrency))
	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(tw, "%s\t%d\n", st, s.ByStatus[domain.SaleStatus(st)])
	}
	tw.Flush()
}
