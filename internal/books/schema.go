package books

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// volumesSchema describes the subset of the volumes response we rely on
const volumesSchema = `{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "volumeInfo"],
        "properties": {
          "id": {"type": "string"},
          "volumeInfo": {
            "type": "object",
            "required": ["title"],
            "properties": {
              "title": {"type": "string"},
              "authors": {"type": "array", "items": {"type": "string"}},
              "categories": {"type": "array", "items": {"type": "string"}},
              "averageRating": {"type": "number"},
              "description": {"type": "string"},
              "imageLinks": {
                "type": "object",
                "properties": {"thumbnail": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(volumesSchema)

func newValidator() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile volumes schema: %w", err)
	}
	return schema, nil
}

// validate checks body against the schema
func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformedPayload, strings.Join(problems, "; "))
	}
	return nil
}
