package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeLenient decodes hand-edited JSON into v. Prompt override files and
// recorded response fixtures are written by people, so trailing commas,
// comments and unquoted keys are accepted.
//
// Strategies, in order: strict JSON, json-repair, then Hjson.
func DecodeLenient(data []byte, v interface{}) error {
	strictErr := json.Unmarshal(data, v)
	if strictErr == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}

	normalized, err := hjsonToJSON(data)
	if err == nil {
		if err = json.Unmarshal(normalized, v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("not valid JSON, repaired JSON or Hjson: %w", strictErr)
}

// hjsonToJSON re-encodes an Hjson document as standard JSON so it can be
// decoded into typed structs with the usual json tags.
func hjsonToJSON(data []byte) ([]byte, error) {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("hjson: %w", err)
	}
	return json.Marshal(generic)
}
