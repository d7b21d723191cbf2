package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_CRUD(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.Product{
		Name:     "Zelda",
		Type:     "PHYSICAL_GAME",
		Platform: "NINTENDO",
		Category: "Aventura",
		Price:    decimal.RequireFromString("249900.50"),
		Stock:    domain.IntPtr(4),
		Images:   []string{"https://img/1.jpg"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", created)
	}
	if !created.Price.Equal(decimal.RequireFromString("249900.50")) {
		t.Fatalf("price round trip: %s", created.Price)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}

	created.Stock = nil
	created.Name = "Zelda TOTK"
	updated, err := repo.Update(ctx, *created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Stock != nil || updated.Name != "Zelda TOTK" {
		t.Fatalf("unexpected updated product %+v", updated)
	}

	many, err := repo.GetMany(ctx, []string{created.ID, uuid.NewString(), "not-a-uuid"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(many) != 1 {
		t.Fatalf("expected 1 product from GetMany, got %d", len(many))
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPostgres_Upsert(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	id := uuid.NewString()

	p, err := repo.Upsert(ctx, domain.Product{ID: id, Name: "Pad", Type: "ACCESSORY", Platform: "XBOX", Price: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	again, err := repo.Upsert(ctx, domain.Product{ID: id, Name: "Pad v2", Type: "ACCESSORY", Platform: "XBOX", Price: decimal.NewFromInt(120)})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if again.ID != p.ID || again.Name != "Pad v2" || !again.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("unexpected upserted product %+v", again)
	}

	if _, err := repo.Upsert(ctx, domain.Product{ID: "bad"}); err == nil {
		t.Fatalf("expected error for non-uuid id")
	}
}

func TestPostgres_GetByIDRejectsMalformedID(t *testing.T) {
	repo := NewPostgres(nil, nil)
	if _, err := repo.GetByID(context.Background(), "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE sale_items, sales, products, cart_states`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
