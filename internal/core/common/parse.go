package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON cleans and unmarshals a JSON object from an LLM response into
// a type T. It tolerates common quirks like surrounding markdown fences or
// explanatory text around the object.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr, err := sliceDelimited(response, '{', '}')
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// ParseJSONArray is the array counterpart of ParseJSON.
func ParseJSONArray[T any](response string) ([]T, error) {
	jsonStr, err := sliceDelimited(response, '[', ']')
	if err != nil {
		return nil, err
	}

	var result []T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON array: %w", err)
	}
	return result, nil
}

func sliceDelimited(s string, open, close byte) (string, error) {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == open {
			start = i
			break
		}
	}
	if start == -1 {
		return "", fmt.Errorf("no JSON found in response (missing %q)", string(open))
	}

	end := -1
	for i := len(s) - 1; i >= start; i-- {
		if s[i] == close {
			end = i + 1
			break
		}
	}
	if end == -1 {
		return "", fmt.Errorf("no JSON found in response (missing %q)", string(close))
	}

	return s[start:end], nil
}
