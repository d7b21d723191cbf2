// Package checkout drives one order submission from the cart: validation,
// payload metadata, the request itself and clearing the cart on success.
package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/money"
)

const (
	MethodCard = "card"
	MethodPSE  = "pse"

	Channel = "web"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []string{MethodCard, MethodPSE}

var fieldValidator = validator.New()

type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type cartStore interface {
	Lines() []domain.CheckoutItem
	Clear(ctx context.Context)
}

type orderSubmitter interface {
	Checkout(ctx context.Context, items []domain.CheckoutItem, customer domain.Customer, meta domain.OrderMetadata) (*domain.Sale, error)
}

type Request struct {
	Customer      domain.Customer
	PaymentMethod string
}

// Receipt is what the storefront shows after a successful checkout.
type Receipt struct {
	OrderID string
	ShortID string
	Total   decimal.Decimal
	Status  domain.SaleStatus
}

// Flow allows a single submission at a time. After a submission finishes
// it stays in Succeeded or Failed until Reset or the next Submit.
type Flow struct {
	cart     cartStore
	orders   orderSubmitter
	currency string
	logger   *zap.Logger

	mu      sync.Mutex
	state   State
	receipt *Receipt
	err     error
}

type Option func(*Flow)

func WithCurrency(code string) Option {
	return func(f *Flow) {
		if code = strings.TrimSpace(code); code != "" {
			f.currency = strings.ToUpper(code)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

func New(cart cartStore, orders orderSubmitter, opts ...Option) *Flow {
	f := &Flow{cart: cart, orders: orders, currency: money.DefaultCurrency, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the outcome of the last finished submission.
func (f *Flow) Result() (*Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt, f.err
}

// Reset returns a finished flow to Idle. It has no effect while Pending.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StatePending {
		return
	}
	f.state, f.receipt, f.err = StateIdle, nil, nil
}

// Submit validates req against the current cart and places the order. The
// cart is cleared only when the backend accepts it.
func (f *Flow) Submit(ctx context.Context, req Request) (*Receipt, error) {
	f.mu.Lock()
	if f.state == StatePending {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	items := f.cart.Lines()
	req = normalize(req)
	if err := validate(items, req); err != nil {
		f.state, f.receipt, f.err = StateFailed, nil, err
		f.mu.Unlock()
		return nil, err
	}
	f.state, f.receipt, f.err = StatePending, nil, nil
	f.mu.Unlock()

	meta := domain.OrderMetadata{Channel: Channel, Currency: f.currency, PaymentMethod: req.PaymentMethod}
	sale, err := f.orders.Checkout(ctx, items, req.Customer, meta)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Warn("checkout failed", zap.String("kind", Classify(err).String()), zap.Error(err))
		f.state, f.err = StateFailed, err
		return nil, err
	}
	f.cart.Clear(ctx)
	receipt := &Receipt{
		OrderID: sale.ID,
		ShortID: ShortID(sale.ID),
		Total:   sale.Total,
		Status:  sale.Status,
	}
	f.logger.Info("checkout completed",
		zap.String("order", sale.ID),
		zap.String("total", sale.Total.String()),
		zap.Int("items", len(items)),
	)
	f.state, f.receipt = StateSucceeded, receipt
	return receipt, nil
}

func normalize(req Request) Request {
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	return req
}

func validate(items []domain.CheckoutItem, req Request) error {
	var problems []string
	if len(items) == 0 {
		problems = append(problems, "your cart is empty")
	}
	switch req.PaymentMethod {
	case "":
		problems = append(problems, "select a payment method")
	case MethodCard, MethodPSE:
	default:
		problems = append(problems, "unsupported payment method "+req.PaymentMethod)
	}
	if req.Customer.Name == "" {
		problems = append(problems, "name is required")
	}
	if req.Customer.Email == "" {
		problems = append(problems, "email is required")
	} else if err := fieldValidator.Var(req.Customer.Email, "email"); err != nil {
		problems = append(problems, "email is not valid")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ShortID is the order reference shown to customers: the last six
// characters of the id, upper-cased.
func ShortID(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}
