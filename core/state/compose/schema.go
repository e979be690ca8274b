package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

var targetSchemaRaw = `
{
	"$defs": {
		"service": {
			"type": "object",
			"properties": {
				"service_id": { "type": "integer" },
				"image_id": { "type": "integer" },
				"release_id": { "type": "integer" },
				"image": { "type": "string" },
				"running": { "type": "boolean" },
				"privileged": { "type": "boolean" },
				"environment": {
					"type": "array",
					"items": { "type": "string" }
				},
				"labels": { "type": "object" },
				"volumes": {
					"type": "array",
					"items": { "type": "string" }
				},
				"networks": { "type": "object" },
				"depends_on": {
					"type": "array",
					"items": { "type": "string" }
				},
				"restart": { "type": "string" }
			},
			"required": [ "service_id", "image_id", "image" ]
		},
		"network": {
			"type": "object",
			"properties": {
				"driver": { "type": "string" },
				"ipam": { "type": "object" },
				"enable_ipv6": { "type": "boolean" },
				"internal": { "type": "boolean" },
				"labels": { "type": "object" },
				"options": { "type": "object" }
			}
		},
		"volume": {
			"type": "object",
			"properties": {
				"driver": { "type": "string" },
				"driver_opts": { "type": "object" },
				"labels": { "type": "object" }
			}
		},
		"app": {
			"type": "object",
			"properties": {
				"uuid": { "type": "string" },
				"release_id": { "type": "integer" },
				"services": {
					"type": "object",
					"additionalProperties": { "$ref": "#/$defs/service" }
				},
				"networks": {
					"type": "object",
					"additionalProperties": { "$ref": "#/$defs/network" }
				},
				"volumes": {
					"type": "object",
					"additionalProperties": { "$ref": "#/$defs/volume" }
				}
			},
			"required": [ "services" ]
		}
	},
	"title": "Shipmate Target State",
	"type": "object",
	"properties": {
		"apps": {
			"type": "object",
			"additionalProperties": { "$ref": "#/$defs/app" }
		}
	},
	"required": [ "apps" ]
}`

// TargetSchema returns the JSON schema every target-state document must
// satisfy.
func TargetSchema() []byte {
	return []byte(targetSchemaRaw)
}

// ValidateTarget checks a target-state document against the schema.
func ValidateTarget(doc []byte) error {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(targetSchemaRaw), rs); err != nil {
		return fmt.Errorf("invalid target schema: %w", err)
	}
	keyErrs, err := rs.ValidateBytes(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("error validating target state: %w", err)
	}
	if len(keyErrs) != 0 {
		return keyError(keyErrs)
	}
	return nil
}

func keyError(errs []jsonschema.KeyError) error {
	s := strings.Builder{}
	for _, e := range errs {
		s.WriteString(fmt.Sprintf("%s\n", e.Error()))
	}
	return errors.New(s.String())
}
