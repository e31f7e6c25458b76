package openapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vitalvas/restmux/mux"
)

func TestTypeSchema(t *testing.T) {
	tests := []struct {
		typ  mux.ArgType
		want string
	}{
		{mux.TypeAny, `{}`},
		{mux.TypeString, `{"type":"string"}`},
		{mux.TypeInt, `{"type":"integer","format":"int64"}`},
		{mux.TypeFloat, `{"type":"number","format":"double"}`},
		{mux.TypeBool, `{"type":"boolean"}`},
		{mux.TypeList, `{"type":"array","items":{}}`},
		{mux.TypeMap, `{"type":"object","additionalProperties":{}}`},
		{mux.TypeUUID, `{"type":"string","format":"uuid"}`},
		{mux.TypeTime, `{"type":"string","format":"date-time"}`},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			data, err := json.Marshal(TypeSchema(tt.typ))
			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDescriptorSchema(t *testing.T) {
	id := uuid.MustParse("0b5e2b7c-1f53-4a52-9d4b-1b8a1f4f7a10")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		desc mux.Descriptor
		want string
	}{
		{
			name: "any",
			desc: mux.Descriptor{Name: "a", Required: true},
			want: `{}`,
		},
		{
			name: "single type",
			desc: mux.Descriptor{Name: "a", Required: true, Types: []mux.ArgType{mux.TypeInt}},
			want: `{"type":"integer","format":"int64"}`,
		},
		{
			name: "several types",
			desc: mux.Descriptor{Name: "a", Required: true, Types: []mux.ArgType{mux.TypeInt, mux.TypeString}},
			want: `{"oneOf":[{"type":"integer","format":"int64"},{"type":"string"}]}`,
		},
		{
			name: "any among types",
			desc: mux.Descriptor{Name: "a", Required: true, Types: []mux.ArgType{mux.TypeInt, mux.TypeAny}},
			want: `{}`,
		},
		{
			name: "literal set",
			desc: mux.Descriptor{Name: "a", Kind: mux.KindOneOfLiteral, Required: true, Values: []any{"asc", "desc"}},
			want: `{"enum":["asc","desc"]}`,
		},
		{
			name: "literal set with default",
			desc: mux.Descriptor{Name: "a", Kind: mux.KindOneOfLiteral, Values: []any{int64(1), int64(2)}, Default: int64(1)},
			want: `{"enum":[1,2],"default":1}`,
		},
		{
			name: "uuid default",
			desc: mux.Descriptor{Name: "a", Kind: mux.KindOptionalWithDefault, Types: []mux.ArgType{mux.TypeUUID}, Default: id},
			want: `{"type":"string","format":"uuid","default":"0b5e2b7c-1f53-4a52-9d4b-1b8a1f4f7a10"}`,
		},
		{
			name: "time default",
			desc: mux.Descriptor{Name: "a", Kind: mux.KindOptionalWithDefault, Types: []mux.ArgType{mux.TypeTime}, Default: at},
			want: `{"type":"string","format":"date-time","default":"2024-01-02T03:04:05Z"}`,
		},
		{
			name: "nil default omitted",
			desc: mux.Descriptor{Name: "a", Kind: mux.KindOptionalWithDefault, Types: []mux.ArgType{mux.TypeBool}},
			want: `{"type":"boolean"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(DescriptorSchema(tt.desc))
			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestBodySchema(t *testing.T) {
	s := bodySchema([]mux.Descriptor{
		{Name: "name", Required: true, Types: []mux.ArgType{mux.TypeString}},
		{Name: "count", Kind: mux.KindOptionalWithDefault, Types: []mux.ArgType{mux.TypeInt}, Default: int64(1)},
		{Name: "email", Required: true},
	})

	data, err := json.Marshal(s)
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"count": {"type": "integer", "format": "int64", "default": 1},
			"email": {}
		},
		"required": ["name", "email"]
	}`, string(data))
}
