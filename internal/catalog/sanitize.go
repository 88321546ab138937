// Package catalog defines the public projections of catalog entities.
//
// The backing store owns the full schema; the rest of the service only ever
// sees the allow-listed fields produced by Sanitize. This bounds payload size
// for the embedding channel and keeps internal-only columns out of responses.
package catalog

import (
	"net/url"
	"sort"
)

// Record is a raw or sanitized row, keyed by column name.
type Record map[string]any

// Kind selects the allow-list applied by Sanitize.
type Kind string

const (
	// KindBrand is the full public brand projection (list_brands).
	KindBrand Kind = "brand"
	// KindBrandCard is the brand projection nested in a product list.
	KindBrandCard Kind = "brand_card"
	// KindProductCard is the product projection shown in brand product lists.
	KindProductCard Kind = "product_card"
	// KindProduct is the full product detail projection.
	KindProduct Kind = "product"
	// KindVariant is the product variant projection.
	KindVariant Kind = "variant"
)

var allowlists = map[Kind][]string{
	KindBrand:       {"id", "name", "slug", "logo_url", "description", "website_url"},
	KindBrandCard:   {"id", "name", "slug", "logo_url", "description"},
	KindProductCard: {"id", "name", "slug", "description", "image_url", "base_price", "currency"},
	KindProduct: {
		"id", "brand_id", "name", "slug", "description", "long_description",
		"image_url", "base_price", "currency", "checkout_url",
	},
	KindVariant: {"id", "name", "sku", "price", "currency", "stock_status", "attributes"},
}

// Allowlist returns the allow-listed field names for a kind, sorted.
// Unknown kinds return nil.
func Allowlist(kind Kind) []string {
	fields, ok := allowlists[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	sort.Strings(out)
	return out
}

// Sanitize copies the allow-listed fields of raw into a new Record.
// Fields absent from raw stay absent; values are copied unchanged; everything
// else is dropped. Sanitize is pure, never panics, and is idempotent:
// sanitizing an already-sanitized record returns an equal record.
func Sanitize(kind Kind, raw Record) Record {
	out := Record{}
	if raw == nil {
		return out
	}
	for _, field := range allowlists[kind] {
		if v, ok := raw[field]; ok {
			out[field] = v
		}
	}
	return out
}

// SanitizeAll sanitizes a slice of records, skipping nil entries.
// A nil or empty input yields an empty (non-nil) slice so the result always
// serializes as a JSON array.
func SanitizeAll(kind Kind, raws []Record) []Record {
	out := make([]Record, 0, len(raws))
	for _, r := range raws {
		if r == nil {
			continue
		}
		out = append(out, Sanitize(kind, r))
	}
	return out
}

// MergeAffiliateParams merges affiliate tracking params into the query string
// of a checkout URL. Affiliate params replace keys already present in the URL
// so attribution is guaranteed. An empty params map or an unparseable URL
// returns the input unchanged.
func MergeAffiliateParams(checkoutURL string, params map[string]string) string {
	if checkoutURL == "" || len(params) == 0 {
		return checkoutURL
	}
	u, err := url.Parse(checkoutURL)
	if err != nil {
		return checkoutURL
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// AffiliateParams extracts the affiliate_params mapping from a raw product
// row. The column is JSONB, so the store decodes it as map[string]any; only
// string values are kept.
func AffiliateParams(raw Record) map[string]string {
	v, ok := raw["affiliate_params"]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StringField returns raw[field] as a string, or "" when absent or not a string.
func StringField(raw Record, field string) string {
	if raw == nil {
		return ""
	}
	s, _ := raw[field].(string)
	return s
}
