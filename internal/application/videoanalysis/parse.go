package videoanalysis

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bryanwahyu/devscreen/internal/domain/risk"
)

// ErrMalformedOutput means the model answered with something other than the indicator document.
var ErrMalformedOutput = eris.New("malformed model output")

const indicatorSchemaJSON = `{
  "type": "object",
  "required": ["indicators"],
  "properties": {
    "indicators": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "eye_contact":          {"$ref": "#/$defs/score"},
        "response_to_name":     {"$ref": "#/$defs/score"},
        "social_engagement":    {"$ref": "#/$defs/score"},
        "repetitive_movements": {"$ref": "#/$defs/score"},
        "pointing_gesturing":   {"$ref": "#/$defs/score"}
      }
    },
    "summary": {"type": "string"},
    "observations": {"type": "array", "items": {"type": "string"}}
  },
  "$defs": {
    "score": {"type": ["number", "null"], "minimum": 0, "maximum": 10}
  }
}`

const indicatorSchemaName = "video-indicators.schema.json"

var indicatorSchema = mustCompileSchema(indicatorSchemaJSON, indicatorSchemaName)

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic("videoanalysis: parse embedded schema: " + err.Error())
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic("videoanalysis: add schema resource: " + err.Error())
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic("videoanalysis: compile schema: " + err.Error())
	}
	return sch
}

type modelOutput struct {
	Indicators   map[risk.Indicator]*float64 `json:"indicators"`
	Summary      string                      `json:"summary"`
	Observations []string                    `json:"observations"`
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse turns raw model text into a typed analysis. Null indicators are dropped.
func Parse(raw string) (risk.Indicators, string, []string, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, "", nil, eris.Wrap(ErrMalformedOutput, "empty response")
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return nil, "", nil, eris.Wrapf(ErrMalformedOutput, "not json: %v", err)
	}
	if err := indicatorSchema.Validate(inst); err != nil {
		return nil, "", nil, eris.Wrapf(ErrMalformedOutput, "schema: %v", err)
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, "", nil, eris.Wrapf(ErrMalformedOutput, "decode: %v", err)
	}

	ind := make(risk.Indicators, len(out.Indicators))
	for key, v := range out.Indicators {
		if v != nil {
			ind[key] = *v
		}
	}
	return ind, out.Summary, out.Observations, nil
}
