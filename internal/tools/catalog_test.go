package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/steelab-tech/mcp-agent/internal/catalog"
	"github.com/steelab-tech/mcp-agent/internal/events"
	"github.com/steelab-tech/mcp-agent/internal/store"
	"go.uber.org/zap"
)

// fakeStore serves fixtures in the order a real store would return them.
type fakeStore struct {
	brands      []catalog.Record
	products    map[string][]catalog.Record // keyed by brand id
	productByID map[string]catalog.Record
	variants    map[string][]catalog.Record // keyed by product id
	leads       []store.Lead

	failReads  error // when set, every read returns it
	failInsert error
}

func (f *fakeStore) ListActiveBrands(context.Context) ([]catalog.Record, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	return f.brands, nil
}

func (f *fakeStore) GetBrand(_ context.Context, id string) (catalog.Record, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	for _, b := range f.brands {
		if b["id"] == id {
			return b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) BrandName(ctx context.Context, id string) (string, error) {
	b, err := f.GetBrand(ctx, id)
	if err != nil {
		return "", err
	}
	return catalog.StringField(b, "name"), nil
}

func (f *fakeStore) ListActiveProducts(_ context.Context, brandID string) ([]catalog.Record, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	return f.products[brandID], nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (catalog.Record, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	if p, ok := f.productByID[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ProductName(ctx context.Context, id string) (string, error) {
	p, err := f.GetProduct(ctx, id)
	if err != nil {
		return "", err
	}
	return catalog.StringField(p, "name"), nil
}

func (f *fakeStore) ListVariants(_ context.Context, productID string) ([]catalog.Record, error) {
	if f.failReads != nil {
		return nil, f.failReads
	}
	return f.variants[productID], nil
}

func (f *fakeStore) InsertLead(_ context.Context, lead store.Lead) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.leads = append(f.leads, lead)
	return nil
}

// captureWriter records events instead of persisting them.
type captureWriter struct {
	events []*events.Event
}

func (w *captureWriter) Write(e *events.Event) { w.events = append(w.events, e) }
func (w *captureWriter) Close()                {}

func seededStore() *fakeStore {
	return &fakeStore{
		brands: []catalog.Record{
			{
				"id": "b1", "name": "Acme", "slug": "acme", "active": true,
				"logo_url": "https://cdn.example.com/acme.png", "internal_note": "hidden",
			},
			{"id": "b2", "name": "Borel", "slug": "borel", "active": true},
		},
		products: map[string][]catalog.Record{
			"b1": {
				{
					"id": "p1", "brand_id": "b1", "name": "Widget", "slug": "widget",
					"base_price": float64(1000), "currency": "VND", "active": true,
					"cost_basis": float64(400),
				},
			},
		},
		productByID: map[string]catalog.Record{
			"p1": {
				"id": "p1", "brand_id": "b1", "name": "Widget", "slug": "widget",
				"base_price": float64(1000), "currency": "VND",
				"checkout_url":     "https://shop.example.com/widget",
				"affiliate_params": map[string]any{"ref": "assistant"},
				"active":           true,
			},
			"p-orphan": {
				"id": "p-orphan", "brand_id": "b-gone", "name": "Orphan",
			},
		},
		variants: map[string][]catalog.Record{
			"p1": {
				{"id": "v1", "product_id": "p1", "name": "Small", "price": float64(900), "currency": "VND", "stock_status": "in_stock"},
				{"id": "v2", "product_id": "p1", "name": "Large", "price": float64(1200), "currency": "VND", "stock_status": "preorder"},
			},
		},
	}
}

func newCatalogRegistry(t *testing.T, st CatalogStore, writer events.Writer) *Registry {
	t.Helper()
	reg := NewRegistry(zap.NewNop())
	if writer == nil {
		writer = &captureWriter{}
	}
	if err := RegisterCatalogTools(reg, st, writer, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestListBrands(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "list_brands", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "2") {
		t.Errorf("Text = %q, want brand count", res.Text)
	}

	brands, ok := res.StructuredContent["brands"].([]catalog.Record)
	if !ok {
		t.Fatalf("brands payload has type %T", res.StructuredContent["brands"])
	}
	if len(brands) != 2 {
		t.Fatalf("got %d brands", len(brands))
	}
	// Store order (name ascending) is passed through unchanged.
	if brands[0]["name"] != "Acme" || brands[1]["name"] != "Borel" {
		t.Errorf("order not preserved: %v", brands)
	}
	if _, ok := brands[0]["internal_note"]; ok {
		t.Error("internal column leaked through sanitizer")
	}
	if _, ok := brands[0]["active"]; ok {
		t.Error("active flag leaked through sanitizer")
	}
}

func TestListBrands_StoreFailure(t *testing.T) {
	st := seededStore()
	st.failReads = errors.New("connection refused")
	reg := newCatalogRegistry(t, st, nil)

	res, err := reg.Invoke(context.Background(), "list_brands", nil)
	if err != nil {
		t.Fatalf("store failure must not propagate, got %v", err)
	}
	brands, ok := res.StructuredContent["brands"].([]any)
	if !ok || len(brands) != 0 {
		t.Errorf("want empty brands fallback, got %v", res.StructuredContent)
	}
}

func TestSelectBrand_EndToEnd(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "select_brand", map[string]any{"brandId": "b1"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(res.Text, "Acme") || !strings.Contains(res.Text, "1") {
		t.Errorf("Text = %q, want brand name and product count", res.Text)
	}
	if res.StructuredContent["brandName"] != "Acme" {
		t.Errorf("brandName = %v", res.StructuredContent["brandName"])
	}

	brand, ok := res.StructuredContent["brand"].(catalog.Record)
	if !ok || brand["id"] != "b1" || brand["name"] != "Acme" {
		t.Errorf("brand = %v", res.StructuredContent["brand"])
	}
	if _, ok := brand["website_url"]; ok {
		t.Error("nested brand projection must not carry website_url")
	}

	products, ok := res.StructuredContent["products"].([]catalog.Record)
	if !ok || len(products) != 1 {
		t.Fatalf("products = %v", res.StructuredContent["products"])
	}
	p := products[0]
	if p["id"] != "p1" || p["name"] != "Widget" || p["base_price"] != float64(1000) || p["currency"] != "VND" {
		t.Errorf("product projection = %v", p)
	}
	if _, ok := p["cost_basis"]; ok {
		t.Error("internal product column leaked")
	}
}

func TestSelectBrand_NotFound(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "select_brand", map[string]any{"brandId": "missing"})
	if err != nil {
		t.Fatalf("not-found must yield fallback, got error %v", err)
	}
	products, ok := res.StructuredContent["products"].([]any)
	if !ok || len(products) != 0 {
		t.Errorf("want empty products fallback, got %v", res.StructuredContent)
	}
	if res.Text == "" {
		t.Error("fallback must carry user-facing text")
	}
}

func TestSelectBrand_ValidationError(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	_, err := reg.Invoke(context.Background(), "select_brand", map[string]any{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSelectProduct(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "select_product", map[string]any{"productId": "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "Widget") {
		t.Errorf("Text = %q", res.Text)
	}
	if res.StructuredContent["brandName"] != "Acme" {
		t.Errorf("brandName = %v", res.StructuredContent["brandName"])
	}

	product, ok := res.StructuredContent["product"].(catalog.Record)
	if !ok {
		t.Fatalf("product payload type %T", res.StructuredContent["product"])
	}
	if product["checkout_url"] != "https://shop.example.com/widget?ref=assistant" {
		t.Errorf("checkout_url = %v, want merged affiliate params", product["checkout_url"])
	}
	if _, ok := product["affiliate_params"]; ok {
		t.Error("affiliate_params must not appear in the projection")
	}

	variants, ok := res.StructuredContent["variants"].([]catalog.Record)
	if !ok || len(variants) != 2 {
		t.Fatalf("variants = %v", res.StructuredContent["variants"])
	}
	// Price-ascending store order is passed through unchanged.
	if variants[0]["id"] != "v1" || variants[1]["id"] != "v2" {
		t.Errorf("variant order not preserved: %v", variants)
	}
}

func TestSelectProduct_NotFound(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "select_product", map[string]any{"productId": "missing"})
	if err != nil {
		t.Fatalf("not-found must yield fallback, got error %v", err)
	}
	if len(res.StructuredContent) != 0 {
		t.Errorf("want empty structured content, got %v", res.StructuredContent)
	}
}

func TestSelectProduct_BrandMissIsBestEffort(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "select_product", map[string]any{"productId": "p-orphan"})
	if err != nil {
		t.Fatal(err)
	}
	product, ok := res.StructuredContent["product"].(catalog.Record)
	if !ok || product["id"] != "p-orphan" {
		t.Fatalf("orphan product must still be returned, got %v", res.StructuredContent)
	}
	if _, ok := res.StructuredContent["brandName"]; ok {
		t.Error("brandName must be omitted when the brand is missing")
	}
}

func TestShowLeadForm(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "show_lead_form", map[string]any{
		"brandId":   "b1",
		"productId": "p1",
		"variantId": "v1",
	})
	if err != nil {
		t.Fatal(err)
	}
	sc := res.StructuredContent
	if sc["brandId"] != "b1" || sc["brandName"] != "Acme" {
		t.Errorf("brand fields = %v", sc)
	}
	if sc["productId"] != "p1" || sc["productName"] != "Widget" {
		t.Errorf("product fields = %v", sc)
	}
	if sc["variantId"] != "v1" {
		t.Errorf("variantId = %v", sc["variantId"])
	}
}

func TestShowLeadForm_UnknownProductStillSucceeds(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	res, err := reg.Invoke(context.Background(), "show_lead_form", map[string]any{
		"brandId":   "b1",
		"productId": "missing",
	})
	if err != nil {
		t.Fatal(err)
	}
	sc := res.StructuredContent
	if sc["brandName"] != "Acme" {
		t.Errorf("brandName = %v, want brand data despite product miss", sc["brandName"])
	}
	if sc["productId"] != "missing" {
		t.Errorf("productId = %v", sc["productId"])
	}
	if _, ok := sc["productName"]; ok {
		t.Error("productName must simply be absent, not a failure")
	}
}

func TestSubmitLead(t *testing.T) {
	st := seededStore()
	reg := newCatalogRegistry(t, st, nil)

	res, err := reg.Invoke(context.Background(), "submit_lead", map[string]any{
		"brand_id":   "b1",
		"product_id": "p1",
		"payload":    map[string]any{"name": "Jo", "email": "jo@example.com"},
		"consent":    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.StructuredContent != nil {
		t.Errorf("submit_lead must not return structured content, got %v", res.StructuredContent)
	}

	if len(st.leads) != 1 {
		t.Fatalf("got %d leads, want 1", len(st.leads))
	}
	lead := st.leads[0]
	if lead.BrandID != "b1" || lead.ProductID == nil || *lead.ProductID != "p1" {
		t.Errorf("lead ids = %+v", lead)
	}
	if !lead.Consent {
		t.Error("consent not recorded")
	}
	if lead.Payload["email"] != "jo@example.com" {
		t.Errorf("payload = %v", lead.Payload)
	}
	if lead.CreatedAt.IsZero() {
		t.Error("created_at must be server-assigned at insert time")
	}
}

func TestSubmitLead_DefaultsAndNullProduct(t *testing.T) {
	st := seededStore()
	reg := newCatalogRegistry(t, st, nil)

	_, err := reg.Invoke(context.Background(), "submit_lead", map[string]any{
		"brand_id":   "b1",
		"product_id": nil,
		"payload":    map[string]any{"name": "Jo"},
	})
	if err != nil {
		t.Fatal(err)
	}
	lead := st.leads[0]
	if lead.ProductID != nil {
		t.Errorf("ProductID = %v, want nil", *lead.ProductID)
	}
	if lead.Consent {
		t.Error("consent must default to false")
	}
}

func TestSubmitLead_InsertFailure(t *testing.T) {
	st := seededStore()
	st.failInsert = errors.New("disk full")
	reg := newCatalogRegistry(t, st, nil)

	res, err := reg.Invoke(context.Background(), "submit_lead", map[string]any{
		"brand_id": "b1",
		"payload":  map[string]any{"name": "Jo"},
	})
	if err != nil {
		t.Fatalf("insert failure must not propagate, got %v", err)
	}
	if !strings.Contains(res.Text, "could not save") {
		t.Errorf("Text = %q, want failure-to-save message", res.Text)
	}
}

func TestTrackEvent_Routing(t *testing.T) {
	writer := &captureWriter{}
	reg := newCatalogRegistry(t, seededStore(), writer)

	tests := []struct {
		eventType string
		wantTable string
	}{
		{"search", "search_events"},
		{"click", "click_events"},
	}
	for _, tt := range tests {
		res, err := reg.Invoke(context.Background(), "track_event", map[string]any{
			"type":    tt.eventType,
			"payload": map[string]any{"q": "shoes"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.Text == "" {
			t.Error("track_event must confirm completion")
		}
	}

	if len(writer.events) != 2 {
		t.Fatalf("got %d events", len(writer.events))
	}
	for i, tt := range tests {
		e := writer.events[i]
		if events.TableFor(e.Type) != tt.wantTable {
			t.Errorf("event %d routed to %q, want %q", i, events.TableFor(e.Type), tt.wantTable)
		}
		if e.ID == "" || e.CreatedAt.IsZero() {
			t.Errorf("event %d missing server-assigned id/timestamp", i)
		}
		if e.Payload["q"] != "shoes" {
			t.Errorf("event %d payload = %v", i, e.Payload)
		}
	}
}

func TestTrackEvent_RejectsUnknownType(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), nil)

	_, err := reg.Invoke(context.Background(), "track_event", map[string]any{
		"type":    "impression",
		"payload": map[string]any{},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown event type, got %v", err)
	}
}

type panicWriter struct{}

func (panicWriter) Write(*events.Event) { panic("sink unavailable") }
func (panicWriter) Close()              {}

func TestTrackEvent_FailureMasked(t *testing.T) {
	reg := newCatalogRegistry(t, seededStore(), panicWriter{})

	res, err := reg.Invoke(context.Background(), "track_event", map[string]any{
		"type":    "click",
		"payload": map[string]any{"target": "p1"},
	})
	if err != nil {
		t.Fatalf("tracking failure must not propagate, got %v", err)
	}
	// Best-effort telemetry: the user still sees success-like text.
	if res.Text != "Request processed." {
		t.Errorf("Text = %q, want masked success text", res.Text)
	}
}
