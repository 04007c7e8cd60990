package toolbus

import "encoding/json"

// Param describes one declared parameter of a tool's input object.
type Param struct {
	name        string
	kind        string
	description string
	required    bool
	enum        []string
	item        *Param  // array element schema
	fields      []Param // nested object fields
}

func String(name string) Param  { return Param{name: name, kind: "string"} }
func Number(name string) Param  { return Param{name: name, kind: "number"} }
func Integer(name string) Param { return Param{name: name, kind: "integer"} }
func Bool(name string) Param    { return Param{name: name, kind: "boolean"} }

// Array declares an array parameter whose elements match item. The item's own
// name and required flag are ignored.
func Array(name string, item Param) Param {
	return Param{name: name, kind: "array", item: &item}
}

// Nested declares an object parameter with its own declared fields.
func Nested(name string, fields ...Param) Param {
	return Param{name: name, kind: "object", fields: fields}
}

// Required marks the parameter as mandatory.
func (p Param) Required() Param {
	p.required = true
	return p
}

// Desc attaches a human-readable description.
func (p Param) Desc(d string) Param {
	p.description = d
	return p
}

// Enum restricts a string parameter to the given values.
func (p Param) Enum(values ...string) Param {
	p.enum = values
	return p
}

// Object builds a strict input schema: declared parameters only, unknown
// fields rejected. This is the default; a typo'd argument name fails
// validation instead of silently reaching the handler.
func Object(params ...Param) Schema {
	return buildSchema(params, true)
}

// LenientObject builds an input schema that ignores unknown fields.
func LenientObject(params ...Param) Schema {
	return buildSchema(params, false)
}

func buildSchema(params []Param, strict bool) Schema {
	raw, err := json.Marshal(objectSchema(params, strict))
	if err != nil {
		// Maps of plain strings and bools cannot fail to marshal.
		panic("toolbus: marshal schema: " + err.Error())
	}
	return Schema{JSON: raw}
}

func objectSchema(params []Param, strict bool) map[string]any {
	props := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		props[p.name] = p.schema(strict)
		if p.required {
			required = append(required, p.name)
		}
	}
	m := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		m["required"] = required
	}
	if strict {
		m["additionalProperties"] = false
	}
	return m
}

func (p Param) schema(strict bool) map[string]any {
	var m map[string]any
	switch p.kind {
	case "array":
		m = map[string]any{"type": "array"}
		if p.item != nil {
			m["items"] = p.item.schema(strict)
		}
	case "object":
		m = objectSchema(p.fields, strict)
	default:
		m = map[string]any{"type": p.kind}
		if len(p.enum) > 0 {
			m["enum"] = p.enum
		}
	}
	if p.description != "" {
		m["description"] = p.description
	}
	return m
}
