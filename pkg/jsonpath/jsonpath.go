// Package jsonpath extracts values from JSON documents using gjson path
// syntax (e.g. "users.0.name", "items.#").
package jsonpath

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Extract returns the value at path as a string.
func Extract(json, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty path expression")
	}

	result := gjson.Get(json, path)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}
