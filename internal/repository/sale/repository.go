package sale

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	UpdateStatus(ctx context.Context, id string, status domain.SaleStatus) (*domain.Sale, error)
}
