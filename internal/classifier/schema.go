package classifier

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// The contract types mirror the model's output document. Pointers mark
// keys that must be present even when their value is a zero value.

type contractFields struct {
	Value       string `json:"value"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type contractHit struct {
	ID     string          `json:"_id" validate:"required"`
	Score  *float64        `json:"_score" validate:"required"`
	Fields *contractFields `json:"fields" validate:"required"`
}

type contractResult struct {
	Hits []contractHit `json:"hits" validate:"required,dive"`
}

type contractOutput struct {
	Result     *contractResult `json:"result" validate:"required"`
	Level      string          `json:"defensible_wage_level" validate:"required,oneof=1 2 3 4" jsonschema:"enum=1,enum=2,enum=3,enum=4"`
	Confidence string          `json:"confidence" validate:"required,oneof=low medium high" jsonschema:"enum=low,enum=medium,enum=high"`
}

// Exact key sets per object level.
var (
	outputKeys = []string{"result", "defensible_wage_level", "confidence"}
	resultKeys = []string{"hits"}
	hitKeys    = []string{"_id", "_score", "fields"}
	fieldKeys  = []string{"value", "title", "description"}
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	schemaOnce sync.Once
	schemaJSON json.RawMessage
	schemaErr  error
)

// ResponseSchema returns the JSON schema of the output document, inlined
// without references or a $schema version so the generation API accepts it.
func ResponseSchema() (json.RawMessage, error) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			Anonymous:      true,
			DoNotReference: true,
			ExpandedStruct: true,
		}
		s := r.Reflect(&contractOutput{})
		s.Version = ""
		schemaJSON, schemaErr = json.Marshal(s)
	})
	return schemaJSON, schemaErr
}
