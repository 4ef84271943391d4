package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	responseSchemaOnce sync.Once
	responseSchema     *jsonschema.Schema
	responseSchemaErr  error
)

// CompileSchema compiles a generic schema map into a reusable validator.
func CompileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	schema, err := CompileSchema("schema.json", schemaMap)
	if err != nil {
		return err
	}
	return validateWith(schema, data)
}

// ValidateResponse validates a sanitized response against BuildResponseSchema.
// The schema is compiled once per process.
func ValidateResponse(data []byte) error {
	responseSchemaOnce.Do(func() {
		responseSchema, responseSchemaErr = CompileSchema("response.json", BuildResponseSchema())
	})
	if responseSchemaErr != nil {
		return responseSchemaErr
	}
	return validateWith(responseSchema, data)
}

func validateWith(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
