// Package catalog is the typed client for the product resource plus the
// in-memory filter engine used when browsing it.
package catalog

import (
	"context"
	"net/url"

	"storefront/internal/domain"
	"storefront/internal/httpclient"
)

const productsPath = "/products"

type Client struct {
	http *httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// List fetches products, forwarding f as query filters. The backend may
// ignore filters it does not support; callers wanting exact semantics run
// f.Apply on the result.
func (c *Client) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	var wire []productWire
	if err := c.http.Get(ctx, productsPath, f.Values(), &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Product, error) {
	var w productWire
	if err := c.http.Get(ctx, productPath(id), nil, &w); err != nil {
		return nil, err
	}
	p := w.toDomain()
	return &p, nil
}

// Create validates in before sending it; invalid input never reaches the backend.
func (c *Client) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var w productWire
	if err := c.http.Post(ctx, productsPath, in, &w); err != nil {
		return nil, err
	}
	p := w.toDomain()
	return &p, nil
}

func (c *Client) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var w productWire
	if err := c.http.Put(ctx, productPath(id), patch, &w); err != nil {
		return nil, err
	}
	p := w.toDomain()
	return &p, nil
}

func (c *Client) SetStock(ctx context.Context, id string, stock int) (*domain.Product, error) {
	return c.Update(ctx, id, ProductPatch{Stock: &stock})
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.http.Delete(ctx, productPath(id), nil)
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}
