package api

import (
	"errors"
	"net/http"

	"github.com/steelab-tech/mcp-agent/internal/tools"
	"github.com/steelab-tech/mcp-agent/internal/widgets"
	"go.uber.org/zap"
)

// handleToolCall implements POST /mcp/tools/call.
func (d *Dependencies) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "name is required"})
		return
	}

	result, err := d.Registry.Invoke(r.Context(), req.Name, req.Arguments)
	if err != nil {
		var ve *tools.ValidationError
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Unknown tool: " + req.Name})
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: ve.Message, Field: ve.Field})
		default:
			// Invoke only fails on dispatch problems; handler faults are
			// already folded into the fallback envelope.
			d.Logger.Error("tool call failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Internal error"})
		}
		return
	}

	resp := CallResponse{
		Text:              result.Text,
		StructuredContent: result.StructuredContent,
	}
	if kind := d.Registry.Template(req.Name); kind != "" {
		resp.TemplateURI = widgets.TemplateURI(kind)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListTools implements GET /mcp/tools.
func (d *Dependencies) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": d.Registry.List()})
}
