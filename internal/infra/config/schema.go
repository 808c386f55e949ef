package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string" },
        "version": { "type": "string" }
      }
    },
    "logLevel": { "type": "string" },
    "drainTimeoutSeconds": { "type": "integer", "minimum": 0 },
    "observability": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "listenAddress": { "type": "string" },
        "metrics": { "type": "boolean" },
        "healthz": { "type": "boolean" }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

func configSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(configSchemaJSON), &schema); err != nil {
			schemaErr = fmt.Errorf("decode config schema: %w", err)
			return
		}
		resolvedSchema, schemaErr = schema.Resolve(nil)
	})
	return resolvedSchema, schemaErr
}

// validateConfigSchema rejects unknown keys and mistyped values in the file
// before viper applies defaults.
func validateConfigSchema(expanded string) error {
	if expanded == "" {
		return nil
	}
	var doc any
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	resolved, err := configSchema()
	if err != nil {
		return err
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
