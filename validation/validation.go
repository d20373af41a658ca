// Package validation checks listing request bodies against the embedded
// JSON Schemas before they are decoded.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const baseURL = "https://connectspace.local/schemas/"

var ErrInvalidBody = errors.New("invalid request body")

var (
	propertyCreate *jsonschema.Schema
	propertyUpdate *jsonschema.Schema
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("read embedded schemas: %v", err))
	}
	for _, e := range entries {
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("read schema %s: %v", e.Name(), err))
		}
		if err := compiler.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			panic(fmt.Sprintf("add schema resource %s: %v", e.Name(), err))
		}
	}

	propertyCreate = compiler.MustCompile(baseURL + "property-create.json")
	propertyUpdate = compiler.MustCompile(baseURL + "property-update.json")
}

// PropertyCreate validates a listing creation body.
func PropertyCreate(body []byte) error {
	return validate(propertyCreate, body)
}

// PropertyUpdate validates a partial listing update body.
func PropertyUpdate(body []byte) error {
	return validate(propertyUpdate, body)
}

func validate(schema *jsonschema.Schema, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidBody)
	}
	err := schema.Validate(v)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidBody, strings.Join(leafMessages(verr), "; "))
}

// leafMessages flattens the error tree to its most specific causes,
// prefixed with the offending field path.
func leafMessages(verr *jsonschema.ValidationError) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		field := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
		msg := e.Message
		if field != "" {
			msg = field + ": " + msg
		}
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}
	walk(verr)
	sort.Strings(out)
	return out
}
