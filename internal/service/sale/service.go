package sale

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type saleRepo interface {
	Create(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	UpdateStatus(ctx context.Context, id string, status domain.SaleStatus) (*domain.Sale, error)
}

type productRepo interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

type Service struct {
	repo     saleRepo
	products productRepo
	logger   *zap.Logger
}

func New(repo saleRepo, products productRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, products: products, logger: logger}
}

// Create records an order. Unit prices come from the current catalog and
// the total is computed here; whatever the client believes the total is
// plays no part. Stock is not decremented.
func (s *Service) Create(ctx context.Context, in domain.CheckoutOrder) (*domain.Sale, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrInvalid)
	}
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		id := strings.TrimSpace(it.Product)
		if id == "" {
			return nil, fmt.Errorf("%w: product required", domain.ErrInvalid)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalid)
		}
		ids = append(ids, id)
	}
	found, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]domain.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		id := strings.TrimSpace(it.Product)
		p, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrInvalid, id)
		}
		items = append(items, domain.SaleItem{Product: id, Quantity: it.Quantity, UnitPrice: p.Price})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	sale, err := s.repo.Create(ctx, domain.Sale{
		Customer: domain.Customer{
			Name:  strings.TrimSpace(in.Customer.Name),
			Email: strings.TrimSpace(in.Customer.Email),
		},
		Items:    items,
		Metadata: in.Metadata,
		Total:    total,
		Status:   domain.SaleStatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("sale created", zap.String("id", sale.ID), zap.String("total", total.String()), zap.Int("items", len(items)))
	return sale, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Sale, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

var errUnknownStatus = errors.New("unknown status")

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Sale, error) {
	st, ok := domain.ParseSaleStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", domain.ErrInvalid, errUnknownStatus, status)
	}
	return s.repo.UpdateStatus(ctx, strings.TrimSpace(id), st)
}
