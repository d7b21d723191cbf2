// Package orders talks to the sales resource: checkout submission plus the
// admin reads and status changes.
package orders

import (
	"context"
	"net/url"

	"storefront/internal/domain"
	"storefront/internal/httpclient"
)

const salesPath = "/sales"

type Client struct {
	http *httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// BuildCheckoutPayload shapes the order-creation body. Items are sent in
// cart order with display fields already dropped.
func BuildCheckoutPayload(items []domain.CheckoutItem, customer domain.Customer, meta domain.OrderMetadata) domain.CheckoutOrder {
	out := make([]domain.CheckoutItem, 0, len(items))
	for _, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		out = append(out, domain.CheckoutItem{Product: it.Product, Quantity: q})
	}
	return domain.CheckoutOrder{Customer: customer, Items: out, Metadata: meta}
}

// Checkout submits the order and returns the sale as recorded by the
// backend. Input is not validated here; backend errors come back as
// *httpclient.StatusError.
func (c *Client) Checkout(ctx context.Context, items []domain.CheckoutItem, customer domain.Customer, meta domain.OrderMetadata) (*domain.Sale, error) {
	var w saleWire
	if err := c.http.Post(ctx, salesPath, BuildCheckoutPayload(items, customer, meta), &w); err != nil {
		return nil, err
	}
	s := w.toDomain()
	return &s, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Sale, error) {
	var wire []saleWire
	if err := c.http.Get(ctx, salesPath, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Sale, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Sale, error) {
	var w saleWire
	if err := c.http.Get(ctx, salePath(id), nil, &w); err != nil {
		return nil, err
	}
	s := w.toDomain()
	return &s, nil
}

type statusUpdate struct {
	Status domain.SaleStatus `json:"status"`
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.SaleStatus) (*domain.Sale, error) {
	var w saleWire
	if err := c.http.Put(ctx, salePath(id), statusUpdate{Status: status}, &w); err != nil {
		return nil, err
	}
	s := w.toDomain()
	return &s, nil
}

func salePath(id string) string {
	return salesPath + "/" + url.PathEscape(id)
}
