package analysis

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// contractSchema mirrors the output shape requested by the analysis prompt.
const contractSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "atsScore":     {"$ref": "#/definitions/score"},
    "score":        {"$ref": "#/definitions/score"},
    "keywordMatch": {"$ref": "#/definitions/score"},
    "formatting":   {"$ref": "#/definitions/score"},
    "content":      {"$ref": "#/definitions/score"},
    "strengths":    {"$ref": "#/definitions/strings"},
    "improvements": {"$ref": "#/definitions/strings"},
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "title", "description", "priority"],
        "properties": {
          "type":        {"enum": ["keywords", "quantify", "section", "formatting", "employment_gap"]},
          "title":       {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "keywords":    {"$ref": "#/definitions/strings"},
          "priority":    {"enum": ["high", "medium", "low"]}
        }
      }
    },
    "skillsGap": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["skill", "currentLevel", "targetLevel", "importance"],
        "properties": {
          "skill":        {"type": "string", "minLength": 1},
          "currentLevel": {"$ref": "#/definitions/score"},
          "targetLevel":  {"$ref": "#/definitions/score"},
          "importance":   {"$ref": "#/definitions/score"}
        }
      }
    },
    "employmentGaps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["startDate", "endDate", "duration", "severity"],
        "properties": {
          "startDate":       {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}$"},
          "endDate":         {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}$"},
          "duration":        {"type": "integer", "minimum": 0},
          "severity":        {"enum": ["minor", "moderate", "significant"]},
          "recommendations": {"$ref": "#/definitions/strings"}
        }
      }
    }
  },
  "required": ["keywordMatch", "formatting", "content", "strengths", "improvements", "suggestions", "skillsGap"],
  "anyOf": [{"required": ["atsScore"]}, {"required": ["score"]}],
  "definitions": {
    "score":   {"type": "number", "minimum": 0, "maximum": 100},
    "strings": {"type": "array", "items": {"type": "string"}}
  }
}`

var contractFields = []string{
	"atsScore", "score", "keywordMatch", "formatting", "content",
	"strengths", "improvements", "suggestions", "skillsGap", "employmentGaps",
}

var compiledContract = mustCompileContract()

func mustCompileContract() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(contractSchema))
	if err != nil {
		panic(fmt.Sprintf("compile analysis contract: %v", err))
	}
	return schema
}

// FieldError is one contract violation in model output.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

var (
	ErrNotJSON       = errors.New("model output is not valid JSON")
	ErrNotObject     = errors.New("model output is not a JSON object")
	ErrOutOfContract = errors.New("model output has no contract fields")
)

// CheckEnvelope reports whether raw is a JSON object carrying at least one contract
// field. Anything else is treated as a failed model call.
func CheckEnvelope(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return ErrNotJSON
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return ErrNotObject
	}
	for _, field := range contractFields {
		if doc.Get(field).Exists() {
			return nil
		}
	}
	return ErrOutOfContract
}

// ValidateContract lists the ways raw departs from the requested output shape. The
// normalizer repairs every one of them; the list exists for logging.
func ValidateContract(raw []byte) []FieldError {
	result, err := compiledContract.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return []FieldError{{Field: "(root)", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	out := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out = append(out, FieldError{Field: field, Message: desc.Description()})
	}
	return out
}
