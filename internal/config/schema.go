package config

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-optimizer/internal/optimizer"
)

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case strings.Contains(t.String(), "grid.Spec"):
				return &jsonschema.Schema{
					Type:        "array",
					Description: "[start, step] (geometric), [start, step, geometric|linear] or [[v1, v2, ...], 0]",
				}
			case t == reflect.TypeOf(time.Duration(0)):
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$|^0$`,
				}
			case t == reflect.TypeOf(optimizer.FailurePolicy("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: optimizer.AllFailurePolicies,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-optimizer-config"
	schema.Description = "Configuration schema for a two-parameter strategy sweep"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
