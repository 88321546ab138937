// Package widgets renders the self-contained HTML documents embedded in the
// assistant's chat surface. Each document carries inline style and script and
// no external script dependencies; remote images are the only outside fetch.
//
// Data acquisition follows a two-step contract. If the host injected the
// payload into window.__STRUCTURED_CONTENT__ before load, the widget renders
// from it immediately. Otherwise it listens for a {structuredContent: ...}
// message and, after a short delay, posts {action: "requestData"} to the host.
// User interactions are translated into single outbound action messages; a
// widget never calls a backend tool itself — the host owns that mapping.
package widgets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies a widget template.
type Kind string

const (
	KindBrandList     Kind = "brand-list"
	KindProductList   Kind = "product-list"
	KindProductDetail Kind = "product-detail"
	KindLeadForm      Kind = "lead-form"
)

// Kinds lists all template kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindBrandList, KindProductList, KindProductDetail, KindLeadForm}
}

// Valid reports whether kind names a known template.
func Valid(kind Kind) bool {
	switch kind {
	case KindBrandList, KindProductList, KindProductDetail, KindLeadForm:
		return true
	}
	return false
}

// TemplateURI returns the resource identifier the host uses to reference a
// widget template.
func TemplateURI(kind Kind) string {
	return fmt.Sprintf("ui://widget/%s.html", kind)
}

// document is the assembly recipe for one widget kind.
type document struct {
	title  string
	style  string // appended after the shared style block
	body   string // static markup inside <body>, before the script
	script string // per-kind render function and action wiring
}

var documents = map[Kind]document{
	KindBrandList: {
		title:  "Brands",
		style:  brandListStyle,
		body:   `<div id="root"><div class="loading">Loading brands...</div></div>`,
		script: brandListScript,
	},
	KindProductList: {
		title:  "Products",
		style:  productListStyle,
		body:   `<div id="root"><div class="loading">Loading products...</div></div>`,
		script: productListScript,
	},
	KindProductDetail: {
		title:  "Product details",
		style:  productDetailStyle,
		body:   `<div id="root"><div class="loading">Loading product details...</div></div>`,
		script: productDetailScript,
	},
	KindLeadForm: {
		title:  "Request a quote",
		style:  leadFormStyle,
		body:   leadFormBody,
		script: leadFormScript,
	},
}

// Render produces the HTML document for a widget kind. A non-nil
// structuredContent is pre-injected into the global data slot so the document
// renders at parse time; nil leaves the document on the handshake path.
func Render(kind Kind, structuredContent map[string]any) (string, error) {
	doc, ok := documents[kind]
	if !ok {
		return "", fmt.Errorf("widgets: unknown template kind %q", kind)
	}

	var injected string
	if structuredContent != nil {
		// encoding/json escapes <, > and & by default, which keeps the
		// payload safe inside a <script> block.
		payload, err := json.Marshal(structuredContent)
		if err != nil {
			return "", fmt.Errorf("widgets: marshal structured content: %w", err)
		}
		injected = "<script>window.__STRUCTURED_CONTENT__ = " + string(payload) + ";</script>\n"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>" + doc.title + "</title>\n")
	b.WriteString("<style>\n" + sharedStyle + doc.style + "</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(doc.body + "\n")
	b.WriteString(injected)
	b.WriteString("<script>\n(function() {\n" + sharedScript + doc.script + "\n})();\n</script>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
