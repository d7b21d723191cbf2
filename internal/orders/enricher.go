package orders

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

const enrichConcurrency = 8

type productGetter interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// EnrichedItem pairs a sale item with the product it refers to.
type EnrichedItem struct {
	domain.SaleItem
	Details domain.Product `json:"details"`
}

type EnrichedSale struct {
	domain.Sale
	Items []EnrichedItem `json:"items"`
}

// Enricher resolves sale item products through the catalog. Results,
// including placeholders for failed lookups, are cached for the life of
// the Enricher, except lookups cut short by a cancelled context.
// Concurrent lookups of one id share a single request.
type Enricher struct {
	products productGetter
	logger   *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]domain.Product
}

func NewEnricher(products productGetter, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{products: products, logger: logger, cache: map[string]domain.Product{}}
}

// Product never fails: an unresolvable id yields a placeholder.
func (e *Enricher) Product(ctx context.Context, id string) domain.Product {
	if id == "" {
		return domain.Product{Name: "Product"}
	}
	e.mu.RLock()
	p, ok := e.cache[id]
	e.mu.RUnlock()
	if ok {
		return p
	}

	v, _, _ := e.group.Do(id, func() (interface{}, error) {
		found, err := e.products.Get(ctx, id)
		var p domain.Product
		if err != nil && ctx.Err() != nil {
			// Cancelled callers get an uncached placeholder.
			return Placeholder(id), nil
		}
		if err != nil || found == nil {
			e.logger.Debug("product lookup failed, using placeholder", zap.String("product", id), zap.Error(err))
			p = Placeholder(id)
		} else {
			p = *found
		}
		e.mu.Lock()
		e.cache[id] = p
		e.mu.Unlock()
		return p, nil
	})
	return v.(domain.Product)
}

// Enrich resolves every item of every sale, looking products up in parallel.
func (e *Enricher) Enrich(ctx context.Context, sales []domain.Sale) []EnrichedSale {
	out := make([]EnrichedSale, len(sales))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, s := range sales {
		out[i] = EnrichedSale{Sale: s, Items: make([]EnrichedItem, len(s.Items))}
		for j, it := range s.Items {
			g.Go(func() error {
				out[i].Items[j] = EnrichedItem{SaleItem: it, Details: e.Product(gctx, it.Product)}
				return nil
			})
		}
	}
	_ = g.Wait()
	return out
}

// Placeholder stands in for a product the catalog could not return.
func Placeholder(id string) domain.Product {
	short := id
	if len(short) > 4 {
		short = short[len(short)-4:]
	}
	return domain.Product{ID: id, Name: "Product " + short}
}
