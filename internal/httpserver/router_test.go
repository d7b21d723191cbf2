package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type stubProducts struct {
	products   []domain.Product
	lastFilter catalog.Filter
	lastInput  catalog.ProductInput
	lastPatch  catalog.ProductPatch
	err        error
}

func (s *stubProducts) List(_ context.Context, f catalog.Filter) ([]domain.Product, error) {
	s.lastFilter = f
	return s.products, s.err
}

func (s *stubProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProducts) Create(_ context.Context, in catalog.ProductInput) (*domain.Product, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: "new", Name: in.Name, Price: in.Price}, nil
}

func (s *stubProducts) Update(_ context.Context, id string, patch catalog.ProductPatch) (*domain.Product, error) {
	s.lastPatch = patch
	p, err := s.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if patch.Stock != nil {
		p.Stock = patch.Stock
	}
	return p, nil
}

func (s *stubProducts) Delete(_ context.Context, id string) error {
	_, err := s.Get(context.Background(), id)
	return err
}

type stubSales struct {
	sales     []domain.Sale
	lastOrder domain.CheckoutOrder
	err       error
}

func (s *stubSales) Create(_ context.Context, in domain.CheckoutOrder) (*domain.Sale, error) {
	s.lastOrder = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sale{ID: "sale-1", Status: domain.SaleStatusPending, Total: decimal.NewFromInt(3000)}, nil
}

func (s *stubSales) List(context.Context) ([]domain.Sale, error) { return s.sales, s.err }

func (s *stubSales) Get(_ context.Context, id string) (*domain.Sale, error) {
	for _, sale := range s.sales {
		if sale.ID == id {
			return &sale, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubSales) UpdateStatus(_ context.Context, id, status string) (*domain.Sale, error) {
	st, ok := domain.ParseSaleStatus(status)
	if !ok {
		return nil, errors.Join(domain.ErrInvalid, errors.New("unknown status"))
	}
	return &domain.Sale{ID: id, Status: st}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(products *stubProducts, sales *stubSales) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(nopLogger(), stubPinger{}, Deps{Products: products, Sales: sales, AllowedOrigins: []string{"http://localhost:3000"}})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestHealthAndReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := buildRouter(nopLogger(), nil, Deps{})
	if rec := do(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: expected 503, got %d", rec.Code)
	}

	down := buildRouter(nopLogger(), stubPinger{err: errors.New("down")}, Deps{})
	if rec := do(t, down, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz with failing db: expected 503, got %d", rec.Code)
	}
	up := buildRouter(nopLogger(), stubPinger{}, Deps{})
	if rec := do(t, up, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}

func TestListProducts_ParsesFilter(t *testing.T) {
	products := &stubProducts{}
	router := newTestRouter(products, &stubSales{})

	rec := do(t, router, http.MethodGet, "/products?q=zelda&platform=nintendo&stock=1&sort=price_asc&min=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", rec.Body.String())
	}
	f := products.lastFilter
	if f.Query != "zelda" || f.Platform != "NINTENDO" || !f.InStock || f.Sort != catalog.SortPriceAsc || f.MinPrice == nil {
		t.Fatalf("unexpected filter %+v", f)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newTestRouter(&stubProducts{}, &stubSales{})
	rec := do(t, router, http.MethodGet, "/products/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "not found" {
		t.Fatalf("expected not found message, got %q", got)
	}
}

func TestCreateProduct(t *testing.T) {
	products := &stubProducts{}
	router := newTestRouter(products, &stubSales{})

	rec := do(t, router, http.MethodPost, "/products", `{"name":"Halo","price":199.9,"stock":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !products.lastInput.Price.Equal(decimal.RequireFromString("199.9")) {
		t.Fatalf("price not bound: %s", products.lastInput.Price)
	}
	if !strings.Contains(rec.Body.String(), `"price":199.9`) {
		t.Fatalf("price should be a JSON number: %s", rec.Body.String())
	}

	if rec := do(t, router, http.MethodPost, "/products", `{"name":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed json: expected 400, got %d", rec.Code)
	}

	products.err = errors.Join(domain.ErrInvalid, errors.New("name is required"))
	rec = do(t, router, http.MethodPost, "/products", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid product: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(errorBody(t, rec), "name is required") {
		t.Fatalf("expected validation message, got %s", rec.Body.String())
	}

	products.err = errors.New("db exploded")
	rec = do(t, router, http.MethodPost, "/products", `{}`)
	if rec.Code != http.StatusInternalServerError || errorBody(t, rec) != "internal error" {
		t.Fatalf("expected hidden 500, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	products := &stubProducts{products: []domain.Product{{ID: "p1", Name: "Halo"}}}
	router := newTestRouter(products, &stubSales{})

	rec := do(t, router, http.MethodPut, "/products/p1", `{"stock":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if products.lastPatch.Stock == nil || *products.lastPatch.Stock != 5 || products.lastPatch.Name != nil {
		t.Fatalf("unexpected patch %+v", products.lastPatch)
	}

	if rec := do(t, router, http.MethodDelete, "/products/p1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/products/zzz", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateSale(t *testing.T) {
	sales := &stubSales{}
	router := newTestRouter(&stubProducts{}, sales)

	rec := do(t, router, http.MethodPost, "/sales", `{
		"customer":{"name":"Ana","email":"ana@example.com"},
		"items":[{"product":"A","quantity":3}],
		"metadata":{"channel":"web","currency":"COP","paymentMethod":"card"}
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(sales.lastOrder.Items) != 1 || sales.lastOrder.Items[0].Product != "A" || sales.lastOrder.Items[0].Quantity != 3 {
		t.Fatalf("unexpected order %+v", sales.lastOrder)
	}
	if sales.lastOrder.Metadata.PaymentMethod != "card" {
		t.Fatalf("metadata not bound: %+v", sales.lastOrder.Metadata)
	}
	var sale domain.Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if sale.Status != domain.SaleStatusPending || !sale.Total.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected sale %+v", sale)
	}
}

func TestSaleStatusAndLookups(t *testing.T) {
	sales := &stubSales{sales: []domain.Sale{{ID: "s1", Status: domain.SaleStatusPending}}}
	router := newTestRouter(&stubProducts{}, sales)

	if rec := do(t, router, http.MethodGet, "/sales", ""); rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/sales/s1", ""); rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/sales/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", rec.Code)
	}
	rec := do(t, router, http.MethodPut, "/sales/s1", `{"status":"PAID"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"PAID"`) {
		t.Fatalf("status update: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPut, "/sales/s1", `{"status":"SHIPPED"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&stubProducts{}, &stubSales{})
	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestRecoveryReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(recovery(nopLogger()))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := do(t, router, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError || errorBody(t, rec) != "internal error" {
		t.Fatalf("unexpected recovery response %d %s", rec.Code, rec.Body.String())
	}
}

type stubCategories struct {
	categories []string
	err        error
}

func (s stubCategories) List(context.Context) ([]string, error) { return s.categories, s.err }

func TestListCategories(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := buildRouter(nopLogger(), nil, Deps{Categories: stubCategories{}})
	rec := do(t, router, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", rec.Code, rec.Body.String())
	}

	router = buildRouter(nopLogger(), nil, Deps{Categories: stubCategories{categories: []string{"Acción", "RPG"}}})
	rec = do(t, router, http.MethodGet, "/categories", "")
	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != "Acción" {
		t.Fatalf("unexpected categories %v", got)
	}

	router = buildRouter(nopLogger(), nil, Deps{Categories: stubCategories{err: errors.New("db down")}})
	rec = do(t, router, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCreateSale_RejectsMalformedOrders(t *testing.T) {
	cases := map[string]string{
		"no items":      `{"customer":{"name":"Ana","email":"ana@example.com"},"items":[]}`,
		"bad email":     `{"customer":{"name":"Ana","email":"ana"},"items":[{"product":"A","quantity":1}]}`,
		"no name":       `{"customer":{"email":"ana@example.com"},"items":[{"product":"A","quantity":1}]}`,
		"no product":    `{"customer":{"name":"Ana","email":"ana@example.com"},"items":[{"quantity":1}]}`,
		"zero quantity": `{"customer":{"name":"Ana","email":"ana@example.com"},"items":[{"product":"A","quantity":0}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sales := &stubSales{}
			router := newTestRouter(&stubProducts{}, sales)
			rec := do(t, router, http.MethodPost, "/sales", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if errorBody(t, rec) != "invalid order payload" {
				t.Fatalf("unexpected error %q", errorBody(t, rec))
			}
			if sales.lastOrder.Items != nil || sales.lastOrder.Customer.Name != "" {
				t.Fatalf("service should not be called, got %+v", sales.lastOrder)
			}
		})
	}
}
