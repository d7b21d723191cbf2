package cartstate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"storefront/internal/domain"
)

const cartBucket = "cart"

// Bolt is a single-file store, the default for a local storefront.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the database file at path.
func OpenBolt(path string) (*Bolt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cart store path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("create cart store dir: %w", err)
	}
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cart store: %w", err)
	}
	store := &Bolt{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Bolt) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Bolt) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("cart store is not configured")
	}
	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(cartBucket))
		if bucket == nil {
			return fmt.Errorf("cart bucket is missing")
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return domain.ErrNotFound
		}
		// raw is only valid for the life of the transaction.
		payload = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Bolt) Save(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("cart store is not configured")
	}
	if err := requireKey(key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(cartBucket))
		if bucket == nil {
			return fmt.Errorf("cart bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

func (s *Bolt) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(cartBucket)); err != nil {
			return fmt.Errorf("create cart bucket: %w", err)
		}
		return nil
	})
}
