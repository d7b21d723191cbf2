// Package category derives the storefront's category list from the catalog.
// Categories are free text on products; there is no category table.
package category

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	products productLister
}

func New(products productLister) *Service {
	return &Service{products: products}
}

// List returns the distinct categories in use, sorted for display.
func (s *Service) List(ctx context.Context) ([]string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(products), nil
}
