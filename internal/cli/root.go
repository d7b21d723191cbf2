// Package cli implements the storefront command line: catalog browsing, a
// persistent cart, checkout and the admin screens, all against the REST
// backend.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/httpclient"
	"storefront/internal/orders"
	"storefront/internal/repository/cartstate"
	"storefront/internal/service/cart"
)

const breakerCooldown = 30 * time.Second

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog *catalog.Client
	orders  *orders.Client
}

// New returns the root command. cfg supplies defaults that the persistent
// flags may override.
func New(cfg config.Config, logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog, manage the cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.connect()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.APIBaseURL, "api", cfg.APIBaseURL, "Backend base URL")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Per-request timeout")
	flags.StringVar(&a.cfg.Cart.Backend, "cart-backend", cfg.Cart.Backend, "Cart storage: memory, bolt, sqlite, redis or postgres")
	flags.StringVar(&a.cfg.Cart.Path, "cart-path", cfg.Cart.Path, "Cart file for the bolt and sqlite backends (default: per-backend file in the user config dir)")

	root.AddCommand(
		a.catalogCommand(),
		a.cartCommand(),
		a.checkoutCommand(),
		a.adminCommand(),
	)
	return root
}

func (a *app) connect() {
	client := httpclient.New(a.cfg.APIBaseURL,
		httpclient.WithTimeout(a.cfg.RequestTimeout),
		httpclient.WithBreaker("storefront-api", a.cfg.BreakerFailures, breakerCooldown),
		httpclient.WithLogger(a.logger.Named("http")),
	)
	a.catalog = catalog.New(client)
	a.orders = orders.New(client)
}

// openCart rehydrates the persisted cart. The returned func releases the
// underlying storage.
func (a *app) openCart(ctx context.Context) (*cart.Store, func(), error) {
	repo, err := cartstate.Open(ctx, a.cfg.Cart, a.cfg.DBConnString)
	if err != nil {
		return nil, nil, fmt.Errorf("open cart storage: %w", err)
	}
	store := cart.Open(ctx, repo, cart.WithKey(a.cfg.Cart.Key), cart.WithLogger(a.logger.Named("cart")))
	return store, func() {
		if err := repo.Close(); err != nil {
			a.logger.Warn("close cart storage", zap.Error(err))
		}
	}, nil
}
