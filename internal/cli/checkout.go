package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/domain"
	"storefront/internal/money"
	"storefront/internal/service/checkout"
)

func (a *app) checkoutCommand() *cobra.Command {
	var name, email, method string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, done, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			flow := checkout.New(store, a.orders, checkout.WithLogger(a.logger.Named("checkout")))
			receipt, err := flow.Submit(cmd.Context(), checkout.Request{
				Customer:      domain.Customer{Name: name, Email: email},
				PaymentMethod: method,
			})
			if err != nil {
				return errors.New(checkout.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%s placed (%s). Total %s\n",
				receipt.ShortID, receipt.Status, money.Format(receipt.Total, money.DefaultCurrency))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Buyer name")
	f.StringVar(&email, "email", "", "Buyer email")
	f.StringVar(&method, "method", checkout.MethodCard, "Payment method: card or pse")
	return cmd
}
