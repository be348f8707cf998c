// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

type jsonPathEquals struct {
	path string
}

// JSONPathEquals returns a checker that decodes the got value (string or
// []byte holding JSON), reads path from it and compares the result with the
// single expected argument using deep equality. JSON numbers decode as
// float64.
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathEquals{path: path}
}

// ArgNames implements qt.Checker.
func (c *jsonPathEquals) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (c *jsonPathEquals) Check(got any, args []any, note func(key string, value any)) error {
	var raw []byte
	switch v := got.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return qt.BadCheckf("got value must be a JSON string or []byte, got %T", got)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}

	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot read path: %w", err)
	}
	note("path", c.path)
	note("value", value)
	return qt.DeepEquals.Check(value, args, note)
}
