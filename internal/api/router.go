package api

import (
	"net/http"
	"time"

	"github.com/steelab-tech/mcp-agent/internal/events"
	"github.com/steelab-tech/mcp-agent/internal/tools"
	"go.uber.org/zap"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Registry *tools.Registry
	Reader   *events.Reader // nil if ClickHouse unavailable
	Logger   *zap.Logger

	// APIKeyHash is a bcrypt hash of the expected bearer key. When empty the
	// call endpoint is open.
	APIKeyHash string
	CacheTTL   time.Duration
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /mcp/tools/call", deps.authMiddleware(deps.handleToolCall))
	mux.HandleFunc("GET /mcp/tools", deps.handleListTools)
	mux.HandleFunc("GET /mcp/widgets/{kind}", deps.handleWidget)

	// Analytics (read side of the event sink)
	mux.HandleFunc("GET /mcp/events", deps.handleListEvents)
	mux.HandleFunc("GET /mcp/analytics", deps.handleGetAnalytics)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
