package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ValidationError reports an argument that failed its declared schema,
// with the instance path of the offending field.
type ValidationError struct {
	Field   string // JSON pointer into the arguments object, "" for the root
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Message
	}
	return fmt.Sprintf("invalid argument at %q: %s", e.Field, e.Message)
}

// compileSchema compiles a JSON Schema given as a Go map. The map is
// round-tripped through JSON so the compiler sees canonical value types.
func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// toJSONValue round-trips a value through encoding/json so validation and
// handlers see only JSON value types (map[string]any, []any, float64, ...).
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var schemaMessages = message.NewPrinter(language.English)

// asValidationError converts a jsonschema validation failure into a
// field-level ValidationError, using the innermost cause.
func asValidationError(err error) *ValidationError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error()}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := ""
	if len(leaf.InstanceLocation) > 0 {
		field = "/" + strings.Join(leaf.InstanceLocation, "/")
	}
	return &ValidationError{
		Field:   field,
		Message: leaf.ErrorKind.LocalizedString(schemaMessages),
	}
}
