// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains config.json before unmarshaling so a typo'd
// key or a negative poll count fails at startup, not mid-run.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "redisAddr": {"type": "string"},
    "redisPassword": {"type": "string"},
    "redisDB": {"type": "integer", "minimum": 0},
    "livenessPattern": {"type": "string", "minLength": 1},
    "resultsDir": {"type": "string"},
    "batchPattern": {"type": "string"},
    "windowSeconds": {"type": "number", "minimum": 0},
    "settleSeconds": {"type": "integer", "minimum": 0},
    "pollSeconds": {"type": "integer", "minimum": 0},
    "downtimePolls": {"type": "integer", "minimum": 0},
    "recoveryPolls": {"type": "integer", "minimum": 0},
    "broker": {"type": "string"},
    "tenant": {"type": "string"},
    "devices": {"type": "integer", "minimum": 0},
    "publishSeconds": {"type": "integer", "minimum": 0},
    "debug": {"type": "boolean"},
    "logFile": {"type": "string"}
  }
}`

// validateConfig checks raw config bytes against configSchema.
func validateConfig(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("config file is invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}
