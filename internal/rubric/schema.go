package rubric

import "github.com/santhosh-tekuri/jsonschema/v5"

// rubricSchema describes the rubric file shape: one entry per problem id,
// each with a point total and at least one weighted criterion.
const rubricSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "required": ["total_points", "criteria"],
    "properties": {
      "total_points": {"type": "number", "minimum": 1},
      "problem_statement": {"type": "string"},
      "expected_response_type": {"enum": ["code", "text", "mixed"]},
      "context": {"type": "string"},
      "criteria": {
        "type": "object",
        "minProperties": 1,
        "additionalProperties": {
          "type": "object",
          "required": ["points"],
          "properties": {
            "points": {"type": "number", "minimum": 1},
            "description": {"type": "string"},
            "guidelines": {"type": "string"}
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("rubric.schema.json", rubricSchema)
