package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/immuskema/compiler"
	"github.com/reoring/immuskema/model"
)

func TestProperty_RequiredDefaultNullableMatrix(t *testing.T) {
	res := mustCompile(t, `{
		"type":"object",
		"required":["listed"],
		"properties":{
			"req":{"type":"integer","required":true},
			"listed":{"type":"boolean"},
			"opt":{"type":"integer"},
			"tags":{"type":"array","items":{"type":"string"}},
			"ratio":{"type":"number","default":1.5},
			"limit":{"type":"integer","default":10,"required":true},
			"color":{"type":"string","enum":["red","dark-blue"],"default":"dark-blue"},
			"flag":{"type":"boolean","required":"true"}
		}
	}`)
	root := rootDef(t, res)

	req := root.Property("req")
	assert.True(t, req.Required)
	assert.False(t, req.Nullable)
	assert.Nil(t, req.Default)
	assert.Equal(t, model.Primitive{Of: model.Int}, req.Type)

	listed := root.Property("listed")
	assert.True(t, listed.Required)
	assert.Equal(t, "isListed", listed.Accessor)
	assert.Equal(t, "boolean", listed.Type.QualifiedName())

	opt := root.Property("opt")
	assert.False(t, opt.Required)
	assert.True(t, opt.Nullable)
	assert.Equal(t, model.Primitive{Of: model.Int, Boxed: true}, opt.Type)
	assert.Equal(t, "java.lang.Integer", opt.Type.QualifiedName())

	tags := root.Property("tags")
	assert.False(t, tags.Nullable)
	assert.Equal(t, "java.util.List<java.lang.String>", tags.Type.QualifiedName())

	ratio := root.Property("ratio")
	assert.False(t, ratio.Nullable)
	assert.Equal(t, "java.lang.Double", ratio.Type.QualifiedName())
	assert.Equal(t, model.Literal{Of: model.LitFloat, Text: "1.5"}, ratio.Default)
	assert.False(t, ratio.Abstract())

	limit := root.Property("limit")
	assert.False(t, limit.Nullable)
	assert.Equal(t, model.Literal{Of: model.LitInt, Text: "10"}, limit.Default)

	color := root.Property("color")
	colorDef, ok := color.Type.(*model.Definition)
	require.True(t, ok)
	assert.Equal(t, model.KindEnum, colorDef.Kind())
	assert.False(t, color.Nullable)
	assert.Equal(t, model.FactoryCall{Type: colorDef, Factory: model.FromText, Arg: model.Literal{Of: model.LitString, Text: "dark-blue"}}, color.Default)
	assert.Equal(t, `com.example.Color.fromValue("dark-blue")`, color.Default.String())

	flag := root.Property("flag")
	assert.True(t, flag.Required)
	assert.Equal(t, "isFlag", flag.Accessor)
}

func TestProperty_MissingTypeOnOptionalIsMalformed(t *testing.T) {
	_, err := compileJSON(t, newCompiler(t, nil, nil), `{"type":"object","properties":{"x":{"description":"anything"}}}`)
	require.ErrorIs(t, err, compiler.ErrMalformedSchema)
	ce, _ := compiler.AsError(err)
	assert.Equal(t, "/properties/x", ce.Pointer)

	// required or defaulted properties do not need one
	res := mustCompile(t, `{"properties":{"x":{"required":true},"y":{"default":"z"}}}`)
	root := rootDef(t, res)
	assert.Equal(t, "java.lang.Object", root.Property("x").Type.QualifiedName())
	assert.Equal(t, model.Literal{Of: model.LitString, Text: "z"}, root.Property("y").Default)
}

func TestProperty_OriginalKeysWinOverReference(t *testing.T) {
	res := mustCompile(t, `{
		"type":"object",
		"definitions":{"size":{"type":"integer","title":"Size","description":"from ref","default":1}},
		"properties":{
			"small":{"$ref":"#/definitions/size","description":"own","default":2,"javaName":"tiny"},
			"plain":{"$ref":"#/definitions/size"}
		}
	}`)
	root := rootDef(t, res)

	small := root.Property("small")
	assert.Equal(t, model.Doc{Title: "Size", Description: "own"}, small.Doc)
	assert.Equal(t, model.Literal{Of: model.LitInt, Text: "2"}, small.Default)
	assert.Equal(t, "tiny", small.Rename)
	assert.Equal(t, "getTiny", small.Accessor)

	plain := root.Property("plain")
	assert.Equal(t, model.Doc{Title: "Size", Description: "from ref"}, plain.Doc)
	assert.Equal(t, model.Literal{Of: model.LitInt, Text: "1"}, plain.Default)
	assert.Equal(t, "java.lang.Integer", plain.Type.QualifiedName())
}

func TestProperty_ExplicitFalseStillHonoursRequiredArray(t *testing.T) {
	res := mustCompile(t, `{"type":"object","required":["id"],"properties":{"id":{"type":"string","required":false}}}`)
	assert.True(t, rootDef(t, res).Property("id").Required)
}

func TestProperty_NonObjectSchema(t *testing.T) {
	_, err := compileJSON(t, newCompiler(t, nil, nil), `{"type":"object","properties":{"x":true}}`)
	require.ErrorIs(t, err, compiler.ErrMalformedSchema)
}
