// Package cart holds the storefront cart: an ordered set of product lines
// with clamped quantities, persisted after every mutation and rehydrated
// on open.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// DefaultKey is the namespace the cart record is stored under.
const DefaultKey = "pg-cart"

const envelopeVersion = 0

type stateRepo interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
}

type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	Items []domain.CartLine `json:"items"`
}

// Store is safe for concurrent use. Mutations never fail: bad input is
// coerced and storage errors are logged.
type Store struct {
	mu     sync.Mutex
	items  []domain.CartLine
	repo   stateRepo
	key    string
	logger *zap.Logger
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open rehydrates the cart stored under the configured key. A nil repo
// gives a cart that lives only in memory. Missing or unreadable records
// yield an empty cart.
func Open(ctx context.Context, repo stateRepo, opts ...Option) *Store {
	s := &Store{repo: repo, key: DefaultKey, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) []domain.CartLine {
	if s.repo == nil {
		return nil
	}
	raw, err := s.repo.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("cart load failed, starting empty", zap.String("key", s.key), zap.Error(err))
		}
		return nil
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("cart record unreadable, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	return sanitize(env.State.Items)
}

// sanitize merges duplicate ids, drops lines without an id and restores
// the quantity bounds on lines read back from storage.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	index := map[string]int{}
	for _, l := range lines {
		l.ID = strings.TrimSpace(l.ID)
		if l.ID == "" {
			continue
		}
		if l.StockCeiling <= 0 {
			l.StockCeiling = domain.DefaultStockCeiling
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity = addClamped(out[i].Quantity, l.Quantity, out[i].StockCeiling)
			continue
		}
		l.Quantity = clamp(l.Quantity, 1, l.StockCeiling)
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// AddItem merges quantity units of p into the cart. An existing line grows
// up to p's stock ceiling; otherwise a new line snapshotting p is appended.
// Products without an id or without sellable stock are ignored.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		s.logger.Warn("ignoring product without id", zap.String("name", p.Name))
		return
	}
	ceiling := p.StockCeiling()
	if ceiling <= 0 {
		s.logger.Info("ignoring product without stock", zap.String("product", id))
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		line := &s.items[i]
		line.StockCeiling = ceiling
		line.Quantity = addClamped(line.Quantity, quantity, ceiling)
	} else {
		s.items = append(s.items, domain.CartLine{
			ID:           id,
			Name:         p.Name,
			UnitPrice:    p.Price,
			Image:        p.Cover(),
			Platform:     p.Platform,
			Type:         p.Type,
			Category:     p.Category,
			StockCeiling: ceiling,
			Quantity:     clamp(quantity, 1, ceiling),
		})
	}
	s.persist(ctx)
}

// UpdateQuantity sets the line's quantity, clamped to [1, stock ceiling].
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items[i].Quantity = clamp(quantity, 1, s.items[i].StockCeiling)
	s.persist(ctx)
}

// UpdateQuantityInput is UpdateQuantity for raw user input such as a form
// field.
func (s *Store) UpdateQuantityInput(ctx context.Context, id, raw string) {
	s.UpdateQuantity(ctx, id, ParseQuantity(raw))
}

// ParseQuantity reads a quantity typed by a user. Empty or non-numeric
// input counts as 1; fractions are truncated.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.items {
		n += l.Quantity
	}
	return n
}

// Total sums each line's quantity times the unit price captured when the
// line was added.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Line(id string) (domain.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.CartLine{}, false
}

// Lines reduces the cart to the items a checkout sends.
func (s *Store) Lines() []domain.CheckoutItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CheckoutItem, 0, len(s.items))
	for _, l := range s.items {
		out = append(out, domain.CheckoutItem{Product: l.ID, Quantity: l.Quantity})
	}
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	items := s.items
	if items == nil {
		items = []domain.CartLine{}
	}
	payload, err := json.Marshal(envelope{State: persistedState{Items: items}, Version: envelopeVersion})
	if err != nil {
		s.logger.Error("encode cart", zap.Error(err))
		return
	}
	if err := s.repo.Save(ctx, s.key, payload); err != nil {
		s.logger.Error("persist cart", zap.String("key", s.key), zap.Error(err))
	}
}

// addClamped is clamp(a+b, 1, ceiling) with the sum saturating instead of
// wrapping. ceiling must be at least 1.
func addClamped(a, b, ceiling int) int {
	if b > 0 && a > math.MaxInt-b {
		return ceiling
	}
	if b < 0 && a < math.MinInt-b {
		return 1
	}
	return clamp(a+b, 1, ceiling)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
