package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestLeafKinds(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		value  any
		ok     bool
		actual string
	}{
		{"string", Str(), "x", true, ""},
		{"string rejects number", Str(), json.Number("1"), false, "integer"},
		{"integer from json", Int(), json.Number("42"), true, ""},
		{"integer from go", Int(), 42, true, ""},
		{"integer rejects float json", Int(), json.Number("4.5"), false, "float"},
		{"integer rejects float64", Int(), 4.0, false, "float"},
		{"integer rejects numeric string", Int(), "42", false, "string"},
		{"integer rejects bool", Int(), true, false, "boolean"},
		{"boolean", Bool(), false, true, ""},
		{"boolean rejects string", Bool(), "true", false, "string"},
		{"null", Str(), nil, false, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.schema.Validate(tt.value)
			if tt.ok {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.schema.Kind.String(), got[0].Expected)
			assert.Equal(t, tt.actual, got[0].Actual)
		})
	}
}

func TestMappingIsOpenWorld(t *testing.T) {
	s := Map(Opt("a", Str()))
	got := s.Validate(map[string]any{"a": "x", "unknown": json.Number("1"), "nested": map[string]any{"deep": nil}})
	assert.Empty(t, got)
}

func TestMappingOptionalAndRequired(t *testing.T) {
	s := Map(Req("id", Str()), Opt("note", Str()))

	assert.Empty(t, s.Validate(map[string]any{"id": "1"}))

	got := s.Validate(map[string]any{"note": "n"})
	require.Len(t, got, 1)
	assert.Equal(t, Violation{Path: "id", Expected: "required field", Actual: "missing"}, got[0])
}

func TestNullableField(t *testing.T) {
	s := Map(Opt("a", Str()).OrNull(), Opt("b", Str()))
	got := s.Validate(map[string]any{"a": nil, "b": nil})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Path)
	assert.Equal(t, "null", got[0].Actual)
}

func TestMappingKindMismatch(t *testing.T) {
	s := Map(Opt("features", Map(Opt("x", Str()))))
	got := s.Validate(map[string]any{"features": []any{"x"}})
	require.Len(t, got, 1)
	assert.Equal(t, "features: expected mapping, got sequence", got[0].String())
}

func TestSequenceValidatesEveryElement(t *testing.T) {
	s := Map(Opt("tags", List(Str())))
	got := s.Validate(map[string]any{"tags": []any{"a", json.Number("2"), "c", true}})
	require.Len(t, got, 2)
	assert.Equal(t, "tags[1]", got[0].Path)
	assert.Equal(t, "tags[3]", got[1].Path)
}

func TestSequenceOfGoSlices(t *testing.T) {
	s := List(Map(Opt("n", Int())))
	assert.Empty(t, s.Validate([]map[string]any{{"n": 1}, {"n": int64(2)}}))
	assert.Empty(t, List(Str()).Validate([]string{"a", "b"}))
	assert.Len(t, List(Str()).Validate("a,b"), 1)
}

func TestNestedPaths(t *testing.T) {
	s := Map(Opt("outer", List(Map(Opt("inner", List(Map(Opt("n", Int()))))))))
	doc := decode(t, `{"outer": [{"inner": [{"n": 1}]}, {"inner": [{"n": 2}, {"n": "3"}]}]}`)

	got := s.Validate(doc)
	require.Len(t, got, 1)
	assert.Equal(t, Violation{Path: "outer[1].inner[1].n", Expected: "integer", Actual: "string"}, got[0])
}

func TestEmptySequenceIsValid(t *testing.T) {
	assert.Empty(t, Map(Opt("xs", List(Int()))).Validate(map[string]any{"xs": []any{}}))
}

func TestViolationStringAtRoot(t *testing.T) {
	got := Map().Validate("not a record")
	require.Len(t, got, 1)
	assert.Equal(t, "(root): expected mapping, got string", got[0].String())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "integer", KindOf(json.Number("-7")))
	assert.Equal(t, "float", KindOf(json.Number("1e3")))
	assert.Equal(t, "float", KindOf(json.Number("2.0")))
	assert.Equal(t, "integer", KindOf(json.Number("18446744073709551615")))
	assert.Empty(t, Int().Validate(json.Number("-99999999999999999999")))
	assert.Equal(t, "float", KindOf(float32(1)))
	assert.Equal(t, "mapping", KindOf(map[string]any{}))
	assert.Equal(t, "struct {}", KindOf(struct{}{}))
}
