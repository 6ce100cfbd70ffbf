package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidBody is wrapped by every validation failure
var ErrInvalidBody = errors.New("invalid request body")

// Error lists the schema violations of a request body
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidBody, strings.Join(e.Violations, "; "))
}

func (e *Error) Unwrap() error {
	return ErrInvalidBody
}

// Schema is a compiled JSON schema for one kind of request body
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func mustCompile(name, source string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Name of the schema
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a raw JSON body against the schema
func (s *Schema) Validate(body []byte) error {
	if len(body) == 0 {
		return &Error{Violations: []string{"(root): body is required"}}
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &Error{Violations: []string{err.Error()}}
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return &Error{Violations: violations}
	}

	return nil
}
