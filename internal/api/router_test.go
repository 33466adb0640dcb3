package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/facilpersianas/blindquote/internal/config"
	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/order"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

type fakeCatalog struct {
	families    []domain.ProductFamily
	err         error
	invalidated bool
}

func (f *fakeCatalog) Families(context.Context) ([]domain.ProductFamily, error) {
	return f.families, f.err
}

func (f *fakeCatalog) Family(_ context.Context, title string) (domain.ProductFamily, error) {
	if f.err != nil {
		return domain.ProductFamily{}, f.err
	}
	for _, fam := range f.families {
		if fam.Title == title {
			return fam, nil
		}
	}
	return domain.ProductFamily{}, &errors.ErrNotFound{Resource: "product family", ID: title}
}

func (f *fakeCatalog) Invalidate() { f.invalidated = true }

func (f *fakeCatalog) Refresh(context.Context) (int, error) {
	return len(f.families), f.err
}

type fakePricer struct {
	err error
}

func (p *fakePricer) UpdatePrices(_ context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
	if p.err != nil {
		return items, p.err
	}
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].UnitPrice = 100
		out[i].Subtotal = 100 * float64(item.Quantity)
	}
	return out, nil
}

type fakeSubmitter struct {
	got order.CartSubmissionPayload
}

func (s *fakeSubmitter) Submit(_ context.Context, p order.CartSubmissionPayload) (*order.DraftResponse, error) {
	if err := order.ValidatePayload(p); err != nil {
		return nil, err
	}
	s.got = p
	id := "gid://shopify/DraftOrder/42"
	return &order.DraftResponse{DraftOrderID: &id, DeliveryEstimateDate: "2026-11-03"}, nil
}

func newTestRouter(cat *fakeCatalog, pricer *fakePricer, sub *fakeSubmitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment: "test",
		Pricing:     config.PricingConfig{CordSideLabels: domain.DefaultCordSideLabels},
		Sellers:     []domain.Seller{{Label: "BRUNA T.", Value: "bruna"}},
	}
	return NewRouter(cfg, Dependencies{Catalog: cat, Pricer: pricer, Orders: sub}, nil)
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var testFamilies = []domain.ProductFamily{
	{Title: "Rolo Blackout", ProductIDs: []string{"111"}, MinWidth: 40, MaxWidth: 41, MinHeight: 50, MaxHeight: 50},
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(&fakeCatalog{}, &fakePricer{}, &fakeSubmitter{})
	for _, path := range []string{"/", "/health", "/metrics"} {
		if w := do(t, r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestCatalogRoutes(t *testing.T) {
	cat := &fakeCatalog{families: testFamilies}
	r := newTestRouter(cat, &fakePricer{}, &fakeSubmitter{})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list families", http.MethodGet, "/v1/catalog/families", http.StatusOK},
		{"options", http.MethodGet, "/v1/catalog/families/options?title=Rolo+Blackout", http.StatusOK},
		{"options unknown family", http.MethodGet, "/v1/catalog/families/options?title=Romana", http.StatusNotFound},
		{"options without title", http.MethodGet, "/v1/catalog/families/options", http.StatusUnprocessableEntity},
		{"refresh", http.MethodPost, "/v1/catalog/refresh", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, r, tt.method, tt.path, nil); w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, w.Code, tt.want, w.Body)
			}
		})
	}
	if !cat.invalidated {
		t.Error("refresh must invalidate the cache")
	}

	w := do(t, r, http.MethodGet, "/v1/catalog/families/options?title=Rolo+Blackout", nil)
	var body struct {
		Options struct {
			Widths   []struct{ Label, Value string } `json:"widths"`
			CordSide []struct{ Label, Value string } `json:"cordSide"`
		} `json:"options"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Options.Widths) != 3 || len(body.Options.CordSide) != 2 {
		t.Errorf("options = %+v", body.Options)
	}
}

func TestCatalogUpstreamFailure(t *testing.T) {
	cat := &fakeCatalog{err: &errors.ErrTransport{Op: "fetch catalog families", StatusCode: 500}}
	r := newTestRouter(cat, &fakePricer{}, &fakeSubmitter{})
	if w := do(t, r, http.MethodGet, "/v1/catalog/families", nil); w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestQuoteItemRoutes(t *testing.T) {
	r := newTestRouter(&fakeCatalog{families: testFamilies}, &fakePricer{}, &fakeSubmitter{})

	w := do(t, r, http.MethodPost, "/v1/quotes/items", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("new item = %d", w.Code)
	}
	var item domain.LineItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatal(err)
	}
	if item.ID == "" || item.Quantity != 1 {
		t.Errorf("new item = %+v", item)
	}

	w = do(t, r, http.MethodPost, "/v1/quotes/items/select-family", map[string]interface{}{"item": item, "title": "Rolo Blackout"})
	if w.Code != http.StatusOK {
		t.Fatalf("select family = %d: %s", w.Code, w.Body)
	}
	var selected domain.LineItem
	if err := json.Unmarshal(w.Body.Bytes(), &selected); err != nil {
		t.Fatal(err)
	}
	if selected.ID != item.ID || !selected.HasProduct || selected.Width != 40 || selected.Height != 50 {
		t.Errorf("selected = %+v", selected)
	}

	w = do(t, r, http.MethodPost, "/v1/quotes/items/select-family", map[string]interface{}{"item": item, "title": "Romana"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown family = %d", w.Code)
	}
}

func TestPriceRoute(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"nothing to price", &errors.ErrValidation{Message: "nothing to price"}, http.StatusUnprocessableEntity},
		{"catalog down", &errors.ErrTransport{Op: "fetch catalog variants"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeCatalog{}, &fakePricer{err: tt.err}, &fakeSubmitter{})
			items := []domain.LineItem{{ID: "1", Name: "Rolo Blackout", HasProduct: true, Quantity: 2}}
			w := do(t, r, http.MethodPost, "/v1/quotes/price", map[string]interface{}{"items": items})
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
			if tt.want != http.StatusOK {
				return
			}
			var body struct {
				Items []domain.LineItem `json:"items"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if len(body.Items) != 1 || body.Items[0].Subtotal != 200 {
				t.Errorf("items = %+v", body.Items)
			}
		})
	}
}

func TestSubmitRoute(t *testing.T) {
	sub := &fakeSubmitter{}
	r := newTestRouter(&fakeCatalog{}, &fakePricer{}, sub)

	item := domain.NewLineItem().WithFamily(testFamilies[0]).WithVariant(domain.NormalizedVariant{ID: "v1", SKU: "RB", Price: 100, Length: 1000, Height: 1000}, nil)
	in := order.DraftInput{
		Customer: domain.Customer{Name: "Ana Lima", Email: "ana@example.com"},
		Seller:   "bruna",
		Items:    []domain.LineItem{item},
	}

	w := do(t, r, http.MethodPost, "/v1/quotes/submit", in)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d: %s", w.Code, w.Body)
	}
	if sub.got.Cart.SellerName != "BRUNA T." || sub.got.CartTotalInput != "100.00" {
		t.Errorf("payload = %+v", sub.got)
	}

	in.Seller = "carla"
	if w := do(t, r, http.MethodPost, "/v1/quotes/submit", in); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown seller = %d", w.Code)
	}

	in.Seller = "bruna"
	in.Customer.Email = ""
	if w := do(t, r, http.MethodPost, "/v1/quotes/submit", in); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing email = %d", w.Code)
	}
}
