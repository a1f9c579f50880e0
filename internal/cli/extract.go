package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/adamwoolhether/httpsreq/client"
)

var bracketIndex = regexp.MustCompile(`\[(\d+|\*)\]`)
var bracketKey = regexp.MustCompile(`\[['"]([^'"]+)['"]\]`)

// toGJSONPath converts a JSONPath expression such as $.users[0].name to
// the gjson syntax users.0.name. Plain gjson paths pass through.
func toGJSONPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = bracketKey.ReplaceAllString(path, ".$1")
	path = bracketIndex.ReplaceAllStringFunc(path, func(m string) string {
		idx := m[1 : len(m)-1]
		if idx == "*" {
			return ".#"
		}
		return "." + idx
	})
	path = strings.TrimPrefix(path, ".")

	if path == "" {
		return "@this"
	}

	return path
}

// extract returns the value at path in the JSON document body.
func extract(body, path string) (any, error) {
	if !gjson.Valid(body) {
		return nil, &client.Error{Err: client.ErrJSON, Detail: "extracting " + path}
	}

	result := gjson.Get(body, toGJSONPath(path))
	if !result.Exists() {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	return result.Value(), nil
}

// schemaValidator checks response bodies against a compiled JSON Schema.
type schemaValidator struct {
	path   string
	schema *jsonschema.Schema
}

func compileSchema(path string) (*schemaValidator, error) {
	schema, err := jsonschema.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", path, err)
	}

	return &schemaValidator{path: path, schema: schema}, nil
}

func (v *schemaValidator) validate(resp *client.Response) error {
	doc, err := resp.JSON()
	if err != nil {
		return err
	}

	if err := v.schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("response does not match schema %s: %s", v.path, verr.Error())
		}
		return fmt.Errorf("validating against schema %s: %w", v.path, err)
	}

	return nil
}
