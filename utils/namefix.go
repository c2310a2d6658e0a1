package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const nameFixSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

var nameFixValidator = jsonschema.MustCompileString("name_fixes.json", nameFixSchema)

// ParseNameFixes decodes a JSON object such as {"Ry an Preston": "Ryan Preston"}.
// Blank input is an empty table. Anything else that is not an object of strings
// returns an empty table together with a *dto.NameFixInputError.
func ParseNameFixes(raw string) (dto.NameFixes, error) {
	fixes := dto.NameFixes{}
	if strings.TrimSpace(raw) == "" {
		return fixes, nil
	}

	var v any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fixes, &dto.NameFixInputError{Err: err}
	}
	if err := nameFixValidator.Validate(v); err != nil {
		return fixes, &dto.NameFixInputError{Err: fmt.Errorf("expected an object of name to name: %w", err)}
	}

	parsed := dto.NameFixes{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fixes, &dto.NameFixInputError{Err: err}
	}
	return parsed, nil
}
