package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/money"
	"storefront/internal/service/cart"
)

func (a *app) cartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the persisted cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart lines and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			writeCart(cmd.OutOrStdout(), store)
			return nil
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add ID",
		Short: "Add a product, or more units of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			store.AddItem(cmd.Context(), *p, qty)
			line, ok := store.Line(p.ID)
			if !ok {
				return fmt.Errorf("%s is out of stock", p.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d in cart\n", line.Name, line.Quantity)
			return nil
		},
	}
	add.Flags().IntVar(&qty, "qty", 1, "Units to add")

	set := &cobra.Command{
		Use:   "set ID QTY",
		Short: "Set the quantity of a line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			if _, ok := store.Line(args[0]); !ok {
				return fmt.Errorf("%s is not in the cart", args[0])
			}
			store.UpdateQuantityInput(cmd.Context(), args[0], args[1])
			line, _ := store.Line(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d in cart\n", line.Name, line.Quantity)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Drop a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			store.RemoveItem(cmd.Context(), args[0])
			writeCart(cmd.OutOrStdout(), store)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			store.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}

	cmd.AddCommand(show, add, set, remove, clearCmd)
	return cmd
}

func writeCart(w io.Writer, store *cart.Store) {
	if store.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tSUBTOTAL")
	for _, l := range store.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Name, strconv.Itoa(l.Quantity),
			money.Format(l.UnitPrice, money.DefaultCurrency), money.Format(l.Subtotal(), money.DefaultCurrency))
	}
	tw.Flush()
	fmt.Fprintf(w, "Items: %d\nTotal: %s\n", store.Count(), money.Format(store.Total(), money.DefaultCurrency))
}
