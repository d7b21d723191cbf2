package sale

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

const saleColumns = `id::text, customer_name, customer_email, channel, currency, payment_method, total::text, status, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("sale repo")}
}

// Create stores the sale and its items in one transaction.
func (r *postgresRepo) Create(ctx context.Context, s domain.Sale) (*domain.Sale, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
INSERT INTO sales (id, customer_name, customer_email, channel, currency, payment_method, total, status)
VALUES ($1, $2, $3, $4, $5, $6, $7::text::numeric, $8)
RETURNING ` + saleColumns
	created, err := scanSale(tx.QueryRow(ctx, q,
		s.ID,
		s.Customer.Name,
		s.Customer.Email,
		s.Metadata.Channel,
		s.Metadata.Currency,
		s.Metadata.PaymentMethod,
		s.Total.String(),
		string(s.Status),
	))
	if err != nil {
		r.logger.Error("create", zap.Error(err))
		return nil, err
	}

	const itemQ = `
INSERT INTO sale_items (sale_id, position, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5::text::numeric)
`
	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(itemQ, created.ID, i, it.Product, it.Quantity, it.UnitPrice.String())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error("create items", zap.String("sale", created.ID), zap.Error(err))
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	created.Items = append([]domain.SaleItem(nil), s.Items...)
	r.logger.Info("created", zap.String("id", created.ID), zap.String("total", created.Total.String()))
	return created, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, err
	}
	var result []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	s, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	items, err := r.itemsFor(ctx, &s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.SaleStatus) (*domain.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE sales SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		r.logger.Error("update status", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Info("status changed", zap.String("id", id), zap.String("status", string(status)))
	return r.GetByID(ctx, id)
}

// itemsFor loads sale items grouped by sale id, for one sale or all of them.
func (r *postgresRepo) itemsFor(ctx context.Context, saleID *string) (map[string][]domain.SaleItem, error) {
	const q = `
SELECT sale_id::text, product_id::text, quantity, unit_price::text
FROM sale_items
WHERE $1::text IS NULL OR sale_id::text = $1::text
ORDER BY sale_id, position
`
	rows, err := r.pool.Query(ctx, q, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]domain.SaleItem{}
	for rows.Next() {
		var (
			sid   string
			it    domain.SaleItem
			price string
		)
		if err := rows.Scan(&sid, &it.Product, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("decode unit price %q: %w", price, err)
		}
		out[sid] = append(out[sid], it)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		s      domain.Sale
		total  string
		status string
	)
	if err := row.Scan(&s.ID, &s.Customer.Name, &s.Customer.Email, &s.Metadata.Channel, &s.Metadata.Currency, &s.Metadata.PaymentMethod, &total, &status, &s.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("decode total %q: %w", total, err)
	}
	s.Total = d
	s.Status = domain.SaleStatus(status)
	return &s, nil
}
