// Package tools implements the tool-invocation boundary: a registry mapping
// tool names to input schemas, handlers, and widget templates, and a
// dispatcher that validates arguments, runs the handler, and normalizes every
// outcome into a uniform {text, structuredContent} envelope.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/steelab-tech/mcp-agent/internal/widgets"
	"go.uber.org/zap"
)

// ErrUnknownTool is returned by Invoke for an unregistered tool name.
var ErrUnknownTool = errors.New("tools: unknown tool")

// Result is the response envelope for every tool invocation. Text is always
// present and human-readable; StructuredContent is the machine payload the
// widget consumes.
type Result struct {
	Text              string         `json:"text"`
	StructuredContent map[string]any `json:"structuredContent,omitempty"`
}

// HandlerFunc executes one tool call. Arguments have already passed schema
// validation and hold only JSON value types.
type HandlerFunc func(ctx context.Context, args map[string]any) (*Result, error)

// Tool is a registered remote-callable operation.
type Tool struct {
	Name        string
	Title       string
	Description string

	// InputSchema is a JSON Schema for the arguments object; nil means the
	// tool takes no arguments and any input is accepted.
	InputSchema map[string]any

	// TemplateKind names the widget rendered alongside this tool's result;
	// empty for text-only tools.
	TemplateKind widgets.Kind

	// FallbackText and FallbackContent form the envelope returned when the
	// handler fails. FallbackText must read as a user-facing message.
	FallbackText    string
	FallbackContent map[string]any

	Handler HandlerFunc
}

// Descriptor is the host-facing description of a registered tool.
type Descriptor struct {
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
	TemplateURI string         `json:"templateUri,omitempty"`
}

type registeredTool struct {
	tool   *Tool
	schema *jsonschema.Schema // nil when the tool declares no input schema
}

// Registry maps tool names to their definitions. Registration happens once at
// startup; after that the registry is immutable and safe for concurrent
// Invoke calls.
type Registry struct {
	tools  map[string]*registeredTool
	order  []string
	logger *zap.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*registeredTool),
		logger: logger,
	}
}

// Register adds a tool, compiling its input schema once. Duplicate names and
// invalid schemas are rejected.
func (r *Registry) Register(tool *Tool) error {
	if tool.Name == "" {
		return errors.New("Register: tool name is required")
	}
	if tool.Handler == nil {
		return fmt.Errorf("Register: tool %q has no handler", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("Register: tool %q already registered", tool.Name)
	}

	var schema *jsonschema.Schema
	if tool.InputSchema != nil {
		compiled, err := compileSchema(tool.Name, tool.InputSchema)
		if err != nil {
			return fmt.Errorf("Register: tool %q: %w", tool.Name, err)
		}
		schema = compiled
	}

	r.tools[tool.Name] = &registeredTool{tool: tool, schema: schema}
	r.order = append(r.order, tool.Name)
	return nil
}

// List returns descriptors for all registered tools in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name].tool
		d := Descriptor{
			Name:        t.Name,
			Title:       t.Title,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
		if t.TemplateKind != "" {
			d.TemplateURI = widgets.TemplateURI(t.TemplateKind)
		}
		out = append(out, d)
	}
	return out
}

// Template returns the widget kind paired with a tool, or "" if the tool is
// unknown or text-only.
func (r *Registry) Template(name string) widgets.Kind {
	reg, ok := r.tools[name]
	if !ok {
		return ""
	}
	return reg.tool.TemplateKind
}

// Invoke dispatches one tool call.
//
// Validation failures reject the call with a *ValidationError before the
// handler runs. Handler failures — including not-found lookups, store errors
// and panics — never propagate: they are logged and converted into the tool's
// fallback envelope, so the host always receives a well-formed response.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (*Result, error) {
	reg, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	tool := reg.tool

	if args == nil {
		args = map[string]any{}
	}

	if reg.schema != nil {
		normalized, err := toJSONValue(args)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("arguments are not JSON-representable: %v", err)}
		}
		if err := reg.schema.Validate(normalized); err != nil {
			return nil, asValidationError(err)
		}
		// Hand the handler the normalized form so argument types are uniform
		// regardless of how the transport decoded them.
		args = normalized.(map[string]any)
	}

	result, err := r.run(ctx, tool, args)
	if err != nil {
		r.logger.Warn("tool handler failed",
			zap.String("tool", name),
			zap.Error(err),
		)
		return fallbackResult(tool), nil
	}
	if result == nil {
		r.logger.Warn("tool handler returned no result", zap.String("tool", name))
		return fallbackResult(tool), nil
	}
	return result, nil
}

// run executes the handler with panic recovery so a faulty handler cannot
// take down the process.
func (r *Registry) run(ctx context.Context, tool *Tool, args map[string]any) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return tool.Handler(ctx, args)
}

func fallbackResult(tool *Tool) *Result {
	res := &Result{Text: tool.FallbackText}
	if res.Text == "" {
		res.Text = "Something went wrong. Please try again later."
	}
	if tool.FallbackContent != nil {
		// Copy so a caller mutating the envelope cannot poison later fallbacks.
		content := make(map[string]any, len(tool.FallbackContent))
		for k, v := range tool.FallbackContent {
			content[k] = v
		}
		res.StructuredContent = content
	}
	return res
}
