package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// levelNamePattern matches the canonical level/branch naming scheme:
// "level", a single digit, and an optional branch suffix.
const levelNamePattern = "^level[1-9][a-z0-9]*$"

var levelsSchema = map[string]any{
	"type":          "object",
	"minProperties": 1,
	"additionalProperties": false,
	"patternProperties": map[string]any{
		"^level[1-9]$": map[string]any{
			"type":          "object",
			"minProperties": 1,
			"additionalProperties": false,
			"patternProperties": map[string]any{
				levelNamePattern: map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var hintsSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"patternProperties": map[string]any{
		"^level[1-9]$": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"patternProperties": map[string]any{
				levelNamePattern: map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var keysSchema = map[string]any{
	"type":          "object",
	"minProperties": 1,
	"additionalProperties": false,
	"patternProperties": map[string]any{
		"^level[1-9]$": map[string]any{"type": "string"},
	},
}

var requirementsSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"patternProperties": map[string]any{
		"^level[1-9]$": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 2,
				"prefixItems": []any{
					map[string]any{"type": "string", "pattern": levelNamePattern},
					map[string]any{"oneOf": []any{
						map[string]any{"type": "null"},
						map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 2,
							"prefixItems": []any{
								map[string]any{"type": "number"},
								map[string]any{"type": "string"},
							},
						},
					}},
				},
			},
		},
	},
}

var toolsSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items":    map[string]any{"type": "string"},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateDoc checks a raw YAML document against a schema definition.
// The document is round-tripped through JSON so the validator sees the
// same value shapes it would for a JSON document.
func validateDoc(name string, definition map[string]any, raw []byte) error {
	var parsed any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	jsonBytes, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("convert to JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("reparse JSON: %w", err)
	}

	compiled, err := getCompiledSchema(name, definition)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
