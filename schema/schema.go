// Package schema describes the expected shape of scraped listing records and
// checks records against it.
//
// A Schema is a small tagged tree: leaves are String, Integer or Boolean,
// Mapping nodes carry named fields and Sequence nodes carry one element
// schema. Validation is open-world: fields a mapping does not declare are
// ignored. Values are never coerced, so "3" is not an integer and 3.5 is
// not either.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the node type of a Schema.
type Kind int

const (
	String Kind = iota + 1
	Integer
	Boolean
	Mapping
	Sequence
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Schema is one node of a schema tree.
type Schema struct {
	Kind   Kind
	Fields []Field // Mapping only
	Elem   *Schema // Sequence only
}

// Field is a named entry of a Mapping schema.
type Field struct {
	Name     string
	Schema   *Schema
	Required bool
	Nullable bool
}

// Str, Int and Bool build leaf schemas.
func Str() *Schema  { return &Schema{Kind: String} }
func Int() *Schema  { return &Schema{Kind: Integer} }
func Bool() *Schema { return &Schema{Kind: Boolean} }

// Map builds a Mapping schema from its fields.
func Map(fields ...Field) *Schema {
	return &Schema{Kind: Mapping, Fields: fields}
}

// List builds a Sequence schema whose every element must match elem.
func List(elem *Schema) *Schema {
	return &Schema{Kind: Sequence, Elem: elem}
}

// Opt declares a field that may be absent.
func Opt(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Req declares a field that must be present.
func Req(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Required: true}
}

// OrNull returns a copy of f that also accepts an explicit null.
func (f Field) OrNull() Field {
	f.Nullable = true
	return f
}

// Violation is a single mismatch between a value and its schema.
type Violation struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: expected %s, got %s", path, v.Expected, v.Actual)
}

// Validate checks value against s and returns every violation found, in
// document order. A nil result means the value conforms.
func (s *Schema) Validate(value any) []Violation {
	var out []Violation
	validate("", s, value, &out)
	return out
}

func validate(path string, s *Schema, value any, out *[]Violation) {
	if value == nil {
		*out = append(*out, Violation{Path: path, Expected: s.Kind.String(), Actual: "null"})
		return
	}

	mismatch := func() {
		*out = append(*out, Violation{Path: path, Expected: s.Kind.String(), Actual: KindOf(value)})
	}

	switch s.Kind {
	case String:
		if _, ok := value.(string); !ok {
			mismatch()
		}
	case Integer:
		if !isInteger(value) {
			mismatch()
		}
	case Boolean:
		if _, ok := value.(bool); !ok {
			mismatch()
		}
	case Mapping:
		m, ok := value.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		for _, f := range s.Fields {
			fv, present := m[f.Name]
			if !present {
				if f.Required {
					*out = append(*out, Violation{Path: join(path, f.Name), Expected: "required field", Actual: "missing"})
				}
				continue
			}
			if fv == nil && f.Nullable {
				continue
			}
			validate(join(path, f.Name), f.Schema, fv, out)
		}
	case Sequence:
		switch items := value.(type) {
		case []any:
			for i, item := range items {
				validate(index(path, i), s.Elem, item, out)
			}
		case []string:
			for i, item := range items {
				validate(index(path, i), s.Elem, item, out)
			}
		case []map[string]any:
			for i, item := range items {
				validate(index(path, i), s.Elem, item, out)
			}
		default:
			mismatch()
		}
	default:
		*out = append(*out, Violation{Path: path, Expected: s.Kind.String(), Actual: "unsupported schema kind"})
	}
}

// KindOf names the schema kind a decoded value belongs to. Values outside the
// schema vocabulary are reported as "float" or by their Go type.
func KindOf(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		// Integers are unbounded: only a fraction or exponent makes a float.
		if strings.ContainsAny(string(v), ".eE") {
			return "float"
		}
		return "integer"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "float"
	case map[string]any:
		return "mapping"
	case []any, []string, []map[string]any:
		return "sequence"
	}
	return fmt.Sprintf("%T", value)
}

func isInteger(value any) bool {
	return KindOf(value) == "integer"
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
