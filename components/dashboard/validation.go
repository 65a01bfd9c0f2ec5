package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Payload kinds accepted from the page.
const (
	PayloadViewport = "viewport"
	PayloadTooltip  = "tooltip"
)

var payloadSchemas = map[string]map[string]any{
	PayloadViewport: {
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"width":          map[string]any{"type": "integer", "minimum": 0, "maximum": MaxViewportWidth},
			"reduced_motion": map[string]any{"type": "boolean"},
		},
	},
	PayloadTooltip: {
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"index": map[string]any{"type": "integer", "minimum": 0, "maximum": desktopChartPoints - 1},
		},
	},
}

// ErrInvalidPayload wraps every payload decode or validation failure.
var ErrInvalidPayload = errors.New("dashboard: invalid payload")

// PayloadValidator validates raw JSON bodies sent by the page.
type PayloadValidator interface {
	Validate(kind string, body []byte) error
}

// JSONSchemaValidator compiles the payload schemas lazily and validates bodies.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	schemas  map[string]map[string]any
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		schemas:  payloadSchemas,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures body satisfies the schema registered for kind. An empty
// body is treated as an empty object.
func (v *JSONSchemaValidator) Validate(kind string, body []byte) error {
	schema, err := v.schemaFor(kind)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrInvalidPayload, kind, err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, kind, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(kind string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	def, ok := v.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("dashboard: unknown payload kind %q", kind)
	}
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := kind + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", kind, err)
	}
	v.mu.Lock()
	v.compiled[kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// DecodePayload validates body against kind and decodes it into dst.
func DecodePayload(v PayloadValidator, kind string, body []byte, dst any) error {
	if v != nil {
		if err := v.Validate(kind, body); err != nil {
			return err
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrInvalidPayload, kind, err)
	}
	return nil
}
