package product

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo repository
}

func New(repo repository) *Service {
	return &Service{repo: repo}
}

// List returns the products matching f, filtered and sorted in memory.
func (s *Service) List(ctx context.Context, f catalog.Filter) ([]domain.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, in catalog.ProductInput) (*domain.Product, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Platform:    in.Platform,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       domain.IntPtr(in.Stock),
		Images:      in.Images,
		Metadata:    in.Metadata,
	})
}

// Update applies the non-nil fields of patch to the stored product.
func (s *Service) Update(ctx context.Context, id string, patch catalog.ProductPatch) (*domain.Product, error) {
	patch = normalizePatch(patch)
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	p := *current
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Platform != nil {
		p.Platform = *patch.Platform
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = domain.IntPtr(*patch.Stock)
	}
	if patch.Images != nil {
		if len(patch.Images) != catalog.RequiredImages {
			return nil, fmt.Errorf("%w: exactly %d image urls are required", domain.ErrInvalid, catalog.RequiredImages)
		}
		p.Images = patch.Images
	}
	if patch.Metadata != nil {
		p.Metadata = patch.Metadata
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func normalizePatch(p catalog.ProductPatch) catalog.ProductPatch {
	trim := func(v *string, upper bool) *string {
		if v == nil {
			return nil
		}
		out := strings.TrimSpace(*v)
		if upper {
			out = strings.ToUpper(out)
		}
		return &out
	}
	p.Name = trim(p.Name, false)
	p.Description = trim(p.Description, false)
	p.Category = trim(p.Category, false)
	p.Type = trim(p.Type, true)
	p.Platform = trim(p.Platform, true)
	if p.Images != nil {
		images := make([]string, 0, len(p.Images))
		for _, u := range p.Images {
			images = append(images, strings.TrimSpace(u))
		}
		p.Images = images
	}
	return p
}
