package api

// CallRequest is the body of POST /mcp/tools/call.
type CallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallResponse is the tool-call envelope returned to the host.
type CallResponse struct {
	Text              string         `json:"text"`
	StructuredContent map[string]any `json:"structuredContent,omitempty"`
	TemplateURI       string         `json:"templateUri,omitempty"`
}

// ErrorResp is the uniform error body.
type ErrorResp struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}
