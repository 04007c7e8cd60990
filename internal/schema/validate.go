// Package schema compiles JSON Schemas and validates argument documents
// against them, reducing validator output to a single offending field and
// reason.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Reasons a FieldError can carry.
const (
	ReasonMissing    = "missing"
	ReasonWrongKind  = "wrong_kind"
	ReasonUnexpected = "unexpected"
	ReasonInvalid    = "invalid"
)

// FieldError is a single validation failure attributed to one field.
type FieldError struct {
	Field  string
	Reason string
	Detail string
	cause  error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("field %s %s: %s", e.Field, e.Reason, e.Detail)
	}
	return e.Detail
}

func (e *FieldError) Unwrap() error { return e.cause }

// Compiled is a schema ready for repeated validation. A nil Compiled validates
// everything.
type Compiled struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document. An empty document
// compiles to nil.
func Compile(schemaJSON json.RawMessage) (*Compiled, error) {
	if len(schemaJSON) == 0 {
		return nil, nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Compiled{schema: s}, nil
}

// Validate checks raw against the compiled schema and returns a *FieldError on
// failure.
func (c *Compiled) Validate(raw json.RawMessage) error {
	if c == nil || c.schema == nil {
		return nil
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &FieldError{Reason: ReasonInvalid, Detail: "arguments are not valid JSON", cause: err}
	}
	err := c.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		ve = verr
	}
	return fieldError(ve, err)
}

// fieldError reduces a validation error tree to the first leaf cause and maps
// it onto a field name and reason.
func fieldError(ve *jsonschema.ValidationError, cause error) *FieldError {
	if ve == nil {
		return &FieldError{Reason: ReasonInvalid, Detail: cause.Error(), cause: cause}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	fe := &FieldError{
		Reason: ReasonInvalid,
		Field:  pointerField(leaf.InstanceLocation),
		Detail: leaf.Message,
		cause:  cause,
	}
	switch keyword(leaf.KeywordLocation) {
	case "required":
		fe.Reason = ReasonMissing
		if f := quotedName(leaf.Message); f != "" {
			fe.Field = f
		}
	case "additionalProperties":
		fe.Reason = ReasonUnexpected
		if f := quotedName(leaf.Message); f != "" {
			fe.Field = f
		}
	case "type":
		fe.Reason = ReasonWrongKind
	}
	return fe
}

// keyword returns the last segment of a keyword location pointer.
func keyword(loc string) string {
	if i := strings.LastIndex(loc, "/"); i >= 0 {
		return loc[i+1:]
	}
	return loc
}

// pointerField converts a JSON pointer instance location ("/user/name") into a
// dotted field path ("user.name").
func pointerField(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	if loc == "" {
		return ""
	}
	parts := strings.Split(loc, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}

// quotedName extracts the first single-quoted name from a validator message
// such as "missing properties: 'b'".
func quotedName(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	rest := msg[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return ""
	}
	return rest[:end]
}
