package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type stubSales struct {
	created      *domain.Sale
	statusID     string
	statusSet    domain.SaleStatus
	createCalled bool
}

func (s *stubSales) Create(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.createCalled = true
	sale.ID = "sale-1"
	s.created = &sale
	return &sale, nil
}

func (s *stubSales) List(context.Context) ([]domain.Sale, error) { return nil, nil }

func (s *stubSales) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	return &domain.Sale{ID: id}, nil
}

func (s *stubSales) UpdateStatus(_ context.Context, id string, status domain.SaleStatus) (*domain.Sale, error) {
	s.statusID, s.statusSet = id, status
	return &domain.Sale{ID: id, Status: status}, nil
}

type stubProducts map[string]domain.Product

func (s stubProducts) GetMany(_ context.Context, ids []string) (map[string]domain.Product, error) {
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var catalogPrices = stubProducts{
	"A": {ID: "A", Price: decimal.NewFromInt(1000)},
	"B": {ID: "B", Price: decimal.RequireFromString("250.50")},
}

func TestCreate_ComputesTotalFromCatalog(t *testing.T) {
	sales := &stubSales{}
	svc := New(sales, catalogPrices, nil)

	sale, err := svc.Create(context.Background(), domain.CheckoutOrder{
		Customer: domain.Customer{Name: " Ana ", Email: "ana@example.com"},
		Items:    []domain.CheckoutItem{{Product: "A", Quantity: 3}, {Product: "B", Quantity: 2}},
		Metadata: domain.OrderMetadata{Channel: "web", Currency: "COP", PaymentMethod: "card"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !sale.Total.Equal(decimal.RequireFromString("3501")) {
		t.Fatalf("expected total 3501, got %s", sale.Total)
	}
	if sale.Status != domain.SaleStatusPending {
		t.Fatalf("expected PENDING, got %s", sale.Status)
	}
	if sale.Customer.Name != "Ana" {
		t.Fatalf("expected trimmed name, got %q", sale.Customer.Name)
	}
	if len(sale.Items) != 2 || !sale.Items[1].UnitPrice.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("unexpected items %+v", sale.Items)
	}
}

func TestCreate_RejectsBadOrders(t *testing.T) {
	cases := map[string][]domain.CheckoutItem{
		"empty":           nil,
		"unknown product": {{Product: "Z", Quantity: 1}},
		"zero quantity":   {{Product: "A", Quantity: 0}},
		"blank product":   {{Product: " ", Quantity: 1}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			sales := &stubSales{}
			svc := New(sales, catalogPrices, nil)
			_, err := svc.Create(context.Background(), domain.CheckoutOrder{Items: items})
			if !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if sales.createCalled {
				t.Fatalf("invalid order reached the repository")
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	sales := &stubSales{}
	svc := New(sales, catalogPrices, nil)

	sale, err := svc.UpdateStatus(context.Background(), "s1", "paid")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if sale.Status != domain.SaleStatusPaid || sales.statusID != "s1" {
		t.Fatalf("unexpected update %+v", sale)
	}

	if _, err := svc.UpdateStatus(context.Background(), "s1", "SHIPPED"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
