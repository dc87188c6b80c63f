package services

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// generateSchema reflects a JSON schema for strict structured output.
// Backends that enforce schemas reject open-ended ones, so additional
// properties are closed off and every property is marked required.
func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	tightenSchema(m)
	return m
}

func tightenSchema(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false

		if properties, ok := schema["properties"].(map[string]any); ok {
			var required []string
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if properties, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range properties {
			if m, ok := prop.(map[string]any); ok {
				tightenSchema(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		tightenSchema(items)
	}
}
