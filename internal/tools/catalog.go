package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/steelab-tech/mcp-agent/internal/catalog"
	"github.com/steelab-tech/mcp-agent/internal/events"
	"github.com/steelab-tech/mcp-agent/internal/store"
	"github.com/steelab-tech/mcp-agent/internal/widgets"
	"go.uber.org/zap"
)

// CatalogStore is the slice of the data store the catalog tools consume.
// *store.Store satisfies it; tests substitute a fake.
type CatalogStore interface {
	ListActiveBrands(ctx context.Context) ([]catalog.Record, error)
	GetBrand(ctx context.Context, id string) (catalog.Record, error)
	BrandName(ctx context.Context, id string) (string, error)
	ListActiveProducts(ctx context.Context, brandID string) ([]catalog.Record, error)
	GetProduct(ctx context.Context, id string) (catalog.Record, error)
	ProductName(ctx context.Context, id string) (string, error)
	ListVariants(ctx context.Context, productID string) ([]catalog.Record, error)
	InsertLead(ctx context.Context, lead store.Lead) error
}

// RegisterCatalogTools wires the six catalog tools into the registry.
func RegisterCatalogTools(reg *Registry, st CatalogStore, writer events.Writer, logger *zap.Logger) error {
	toolset := []*Tool{
		{
			Name:            "list_brands",
			Title:           "Browse brands",
			Description:     "Show the list of active brands",
			TemplateKind:    widgets.KindBrandList,
			FallbackText:    "We could not load the brand list. Please try again later.",
			FallbackContent: map[string]any{"brands": []any{}},
			Handler:         listBrandsHandler(st),
		},
		{
			Name:            "select_brand",
			Title:           "Select brand",
			Description:     "Select a brand and show its products",
			InputSchema:     selectBrandSchema,
			TemplateKind:    widgets.KindProductList,
			FallbackText:    "We could not load that brand. Please try again.",
			FallbackContent: map[string]any{"products": []any{}},
			Handler:         selectBrandHandler(st),
		},
		{
			Name:            "select_product",
			Title:           "Product details",
			Description:     "Show product details and purchase options",
			InputSchema:     selectProductSchema,
			TemplateKind:    widgets.KindProductDetail,
			FallbackText:    "We could not load that product. Please try again.",
			FallbackContent: map[string]any{},
			Handler:         selectProductHandler(st, logger),
		},
		{
			Name:            "show_lead_form",
			Title:           "Request a quote",
			Description:     "Show the consultation request form",
			InputSchema:     showLeadFormSchema,
			TemplateKind:    widgets.KindLeadForm,
			FallbackText:    "We could not open the form. Please try again.",
			FallbackContent: map[string]any{},
			Handler:         showLeadFormHandler(st),
		},
		{
			Name:         "submit_lead",
			Title:        "Submit contact details",
			Description:  "Save a consultation request",
			InputSchema:  submitLeadSchema,
			FallbackText: "We could not save your information. Please try again later.",
			Handler:      submitLeadHandler(st),
		},
		{
			Name:        "track_event",
			Title:       "Record interaction",
			Description: "Record a user interaction event (search, click)",
			InputSchema: trackEventSchema,
			// Telemetry is best-effort: even total failure reports completion.
			FallbackText: "Request processed.",
			Handler:      trackEventHandler(writer),
		},
	}

	for _, t := range toolset {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

var selectBrandSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"brandId": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The brand ID to select",
		},
	},
	"required":             []any{"brandId"},
	"additionalProperties": false,
}

var selectProductSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"productId": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The product ID to view",
		},
	},
	"required":             []any{"productId"},
	"additionalProperties": false,
}

var showLeadFormSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"brandId": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The brand ID",
		},
		"productId": map[string]any{
			"type":        "string",
			"description": "Optional product ID",
		},
		"variantId": map[string]any{
			"type":        "string",
			"description": "Optional variant ID",
		},
	},
	"required":             []any{"brandId"},
	"additionalProperties": false,
}

var submitLeadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"brand_id": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The brand ID",
		},
		"product_id": map[string]any{
			"type":        []any{"string", "null"},
			"description": "Optional product ID",
		},
		"payload": map[string]any{
			"type":        "object",
			"description": "Lead form data",
		},
		"consent": map[string]any{
			"type":        "boolean",
			"default":     false,
			"description": "User consent flag",
		},
	},
	"required":             []any{"brand_id", "payload"},
	"additionalProperties": false,
}

var trackEventSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type":        "string",
			"enum":        []any{"search", "click"},
			"description": "Event type",
		},
		"payload": map[string]any{
			"type":        "object",
			"description": "Event data",
		},
	},
	"required":             []any{"type", "payload"},
	"additionalProperties": false,
}

func listBrandsHandler(st CatalogStore) HandlerFunc {
	return func(ctx context.Context, _ map[string]any) (*Result, error) {
		brands, err := st.ListActiveBrands(ctx)
		if err != nil {
			return nil, fmt.Errorf("list brands: %w", err)
		}
		clean := catalog.SanitizeAll(catalog.KindBrand, brands)
		return &Result{
			Text:              fmt.Sprintf("Found %d active brands.", len(clean)),
			StructuredContent: map[string]any{"brands": clean},
		}, nil
	}
}

func selectBrandHandler(st CatalogStore) HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*Result, error) {
		brandID := stringArg(args, "brandId")

		rawBrand, err := st.GetBrand(ctx, brandID)
		if err != nil {
			return nil, fmt.Errorf("brand %s: %w", brandID, err)
		}
		rawProducts, err := st.ListActiveProducts(ctx, brandID)
		if err != nil {
			return nil, fmt.Errorf("products of brand %s: %w", brandID, err)
		}

		brandName := catalog.StringField(rawBrand, "name")
		products := catalog.SanitizeAll(catalog.KindProductCard, rawProducts)
		return &Result{
			Text: fmt.Sprintf("Selected brand %q. Found %d products.", brandName, len(products)),
			StructuredContent: map[string]any{
				"brand":     catalog.Sanitize(catalog.KindBrandCard, rawBrand),
				"products":  products,
				"brandName": brandName,
			},
		}, nil
	}
}

func selectProductHandler(st CatalogStore, logger *zap.Logger) HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*Result, error) {
		productID := stringArg(args, "productId")

		rawProduct, err := st.GetProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", productID, err)
		}

		product := catalog.Sanitize(catalog.KindProduct, rawProduct)
		if params := catalog.AffiliateParams(rawProduct); params != nil {
			if checkout, ok := product["checkout_url"].(string); ok {
				product["checkout_url"] = catalog.MergeAffiliateParams(checkout, params)
			}
		}

		// Variants are display data: a failed fetch degrades to an empty list.
		rawVariants, err := st.ListVariants(ctx, productID)
		if err != nil {
			logger.Warn("variant lookup failed",
				zap.String("product_id", productID),
				zap.Error(err),
			)
			rawVariants = nil
		}

		content := map[string]any{
			"product":  product,
			"variants": catalog.SanitizeAll(catalog.KindVariant, rawVariants),
		}

		// Best-effort: a missing brand only omits the derived name.
		if brandID := catalog.StringField(rawProduct, "brand_id"); brandID != "" {
			if name, err := st.BrandName(ctx, brandID); err == nil {
				content["brandName"] = name
			} else if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("brand name lookup failed",
					zap.String("brand_id", brandID),
					zap.Error(err),
				)
			}
		}

		return &Result{
			Text:              fmt.Sprintf("Product details: %s", catalog.StringField(rawProduct, "name")),
			StructuredContent: content,
		}, nil
	}
}

func showLeadFormHandler(st CatalogStore) HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*Result, error) {
		brandID := stringArg(args, "brandId")

		content := map[string]any{"brandId": brandID}

		// Both lookups are best-effort: a miss omits the field, never fails.
		if name, err := st.BrandName(ctx, brandID); err == nil {
			content["brandName"] = name
		}
		if productID := stringArg(args, "productId"); productID != "" {
			content["productId"] = productID
			if name, err := st.ProductName(ctx, productID); err == nil {
				content["productName"] = name
			}
		}
		if variantID := stringArg(args, "variantId"); variantID != "" {
			content["variantId"] = variantID
		}

		return &Result{
			Text:              "Please fill in your details to get a free consultation.",
			StructuredContent: content,
		}, nil
	}
}

func submitLeadHandler(st CatalogStore) HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*Result, error) {
		lead := store.Lead{
			BrandID:   stringArg(args, "brand_id"),
			Payload:   mapArg(args, "payload"),
			Consent:   boolArg(args, "consent"),
			CreatedAt: time.Now().UTC(),
		}
		if productID := stringArg(args, "product_id"); productID != "" {
			lead.ProductID = &productID
		}

		if err := st.InsertLead(ctx, lead); err != nil {
			return nil, fmt.Errorf("insert lead: %w", err)
		}

		return &Result{
			Text: "Your information has been submitted. We will contact you as soon as possible.",
		}, nil
	}
}

func trackEventHandler(writer events.Writer) HandlerFunc {
	return func(_ context.Context, args map[string]any) (*Result, error) {
		writer.Write(&events.Event{
			ID:        uuid.New().String(),
			Type:      stringArg(args, "type"),
			Payload:   mapArg(args, "payload"),
			CreatedAt: time.Now().UTC(),
		})
		return &Result{Text: "Event recorded."}, nil
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func mapArg(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

// boolArg applies the schema default: an absent or non-boolean value is false.
func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
