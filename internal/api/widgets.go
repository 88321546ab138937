package api

import (
	"net/http"
	"strings"

	"github.com/steelab-tech/mcp-agent/internal/widgets"
	"go.uber.org/zap"
)

// handleWidget implements GET /mcp/widgets/{kind}: it serves the template
// document itself, so the rendered page acquires data over the host bridge.
func (d *Dependencies) handleWidget(w http.ResponseWriter, r *http.Request) {
	kind := widgets.Kind(strings.TrimSuffix(r.PathValue("kind"), ".html"))
	if !widgets.Valid(kind) {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Unknown widget: " + string(kind)})
		return
	}

	doc, err := widgets.Render(kind, nil)
	if err != nil {
		d.Logger.Error("widget render failed", zap.String("kind", string(kind)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Internal error"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
