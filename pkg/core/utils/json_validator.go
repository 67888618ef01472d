package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeJSON strictly decodes one JSON value. Numbers come back as
// json.Number so large monetary integers survive without float rounding.
func DecodeJSON(payload string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("JSON_STRUCTURAL_ERROR: trailing data after JSON value")
	}
	return v, nil
}

// RepairJSON attempts to fix common defects in provider payloads.
// Supported repairs:
// - Missing quotes around keys
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - TRUE/FALSE/Null instead of true/false/null
// - Trailing commas
// - Leading/trailing whitespace and markdown code blocks
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (comments, unquoted keys, optional
// commas) and returns standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	err := hjson.Unmarshal([]byte(hjsonData), &result)
	if err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}

	return string(jsonBytes), nil
}

// SmartParse tries multiple parsing strategies to extract one JSON value
// from a provider payload. Order of attempts:
// 1. Standard JSON parse
// 2. JSON repair
// 3. Hjson parse (most lenient)
// The decoded value uses json.Number for all numerics.
func SmartParse(input string) (any, error) {
	if v, err := DecodeJSON(input); err == nil {
		return v, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if v, err := DecodeJSON(repaired); err == nil {
			return v, nil
		}
	}

	if hjsonResult, err := ParseHJSON(input); err == nil {
		if v, err := DecodeJSON(hjsonResult); err == nil {
			return v, nil
		}
	}

	return nil, fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
