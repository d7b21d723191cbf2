package cartstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Postgres stores the record in the cart_states table created by the
// backend migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (r *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT payload::text FROM cart_states WHERE namespace = $1`
	var payload string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load cart state: %w", err)
	}
	return []byte(payload), nil
}

func (r *Postgres) Save(ctx context.Context, key string, payload []byte) error {
	if err := requireKey(key); err != nil {
		return err
	}
	const q = `
INSERT INTO cart_states (namespace, payload, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (namespace) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
`
	if _, err := r.pool.Exec(ctx, q, key, string(payload)); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

func (r *Postgres) Close() error {
	r.pool.Close()
	return nil
}
