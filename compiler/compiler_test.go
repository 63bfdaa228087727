package compiler_test

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/immuskema/compiler"
	"github.com/reoring/immuskema/config"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

func newCompiler(t *testing.T, cfg *config.Config, docs schema.MapLoader) *compiler.Compiler {
	t.Helper()
	if docs == nil {
		docs = schema.MapLoader{}
	}
	c, err := compiler.New(compiler.Options{Config: cfg, Namespace: "com.example", Store: schema.NewStore(docs)})
	require.NoError(t, err)
	return c
}

func compileJSON(t *testing.T, c *compiler.Compiler, src string) (*compiler.Result, error) {
	t.Helper()
	doc, err := schema.ParseJSON("root.json", []byte(src))
	require.NoError(t, err)
	return c.Compile(doc, "")
}

func mustCompile(t *testing.T, src string) *compiler.Result {
	t.Helper()
	res, err := compileJSON(t, newCompiler(t, nil, nil), src)
	require.NoError(t, err)
	return res
}

func rootDef(t *testing.T, res *compiler.Result) *model.Definition {
	t.Helper()
	d, ok := res.Root.(*model.Definition)
	require.True(t, ok, "root is %T", res.Root)
	return d
}

// summary flattens everything determinism cares about.
func summary(types []*model.Definition) []string {
	var out []string
	for _, d := range types {
		out = append(out, d.QualifiedName())
		for _, p := range d.Properties {
			def := ""
			if p.Default != nil {
				def = p.Default.String()
			}
			out = append(out, fmt.Sprintf("  %s %s %s nullable=%t default=%s", p.Name, p.Accessor, p.Type.QualifiedName(), p.Nullable, def))
		}
	}
	return out
}

func TestCompile_CountAndLabel(t *testing.T) {
	res := mustCompile(t, `{"type":"object","properties":{"count":{"type":"integer","required":true},"label":{"type":"string","default":"n/a"}}}`)

	root := rootDef(t, res)
	assert.Equal(t, "com.example.Root", root.QualifiedName())
	assert.True(t, root.Abstract)
	require.Len(t, root.Properties, 2)

	count := root.Properties[0]
	assert.Equal(t, "count", count.Name)
	assert.Equal(t, "getCount", count.Accessor)
	assert.Equal(t, model.Primitive{Of: model.Int}, count.Type)
	assert.True(t, count.Required)
	assert.False(t, count.Nullable)
	assert.Nil(t, count.Default)
	assert.True(t, count.Abstract())

	label := root.Properties[1]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, "java.lang.String", label.Type.QualifiedName())
	assert.False(t, label.Required)
	assert.False(t, label.Nullable)
	assert.Equal(t, model.Literal{Of: model.LitString, Text: "n/a"}, label.Default)
	assert.Equal(t, `"n/a"`, label.Default.String())

	assert.Equal(t, []*model.Definition{root}, res.Types)
}

func TestCompile_Deterministic(t *testing.T) {
	faker := gofakeit.New(11)
	props := map[string]any{}
	for i := 0; i < 40; i++ {
		name := faker.RandomString([]string{"node", "item", "user-id", "user_id", "order", "line-items"}) + fmt.Sprint(i%3)
		switch i % 4 {
		case 0:
			props[name] = map[string]any{"type": "object", "properties": map[string]any{"id": map[string]any{"type": "integer", "default": i}}}
		case 1:
			props[name] = map[string]any{"type": "array", "items": map[string]any{"type": "object"}}
		case 2:
			props[name] = map[string]any{"type": "string", "enum": []any{"a", "b"}}
		default:
			props[name] = map[string]any{"type": "number", "required": true}
		}
	}
	run := func() []string {
		doc, err := schema.FromValue("gen.json", map[string]any{"type": "object", "properties": props})
		require.NoError(t, err)
		res, err := newCompiler(t, nil, nil).Compile(doc, "Generated")
		require.NoError(t, err)
		return summary(res.Types)
	}
	first := run()
	assert.Equal(t, first, run())
	assert.NotEmpty(t, first)
}

func TestCompile_SharedReferenceProducesOneDefinition(t *testing.T) {
	res := mustCompile(t, `{
		"type":"object",
		"definitions":{"point":{"type":"object","properties":{"x":{"type":"number","required":true}}}},
		"properties":{
			"from":{"$ref":"#/definitions/point"},
			"to":{"$ref":"#/definitions/point"}
		}
	}`)
	require.Len(t, res.Types, 2)
	root := rootDef(t, res)
	point := res.Types[1]
	assert.Equal(t, "Point", point.Name)
	assert.Same(t, point, root.Property("from").Type)
	assert.Same(t, point, root.Property("to").Type)
	assert.True(t, root.Property("from").Nullable)
}

func TestCompile_SelfReference(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		res := mustCompile(t, `{"type":"object","properties":{"next":{"$ref":"#"}}}`)
		require.Len(t, res.Types, 1)
		root := rootDef(t, res)
		assert.Same(t, root, root.Property("next").Type)
	})
	t.Run("through array", func(t *testing.T) {
		res := mustCompile(t, `{"type":"object","properties":{"children":{"type":"array","items":{"$ref":"#"}}}}`)
		require.Len(t, res.Types, 1)
		root := rootDef(t, res)
		children := root.Property("children")
		coll, ok := children.Type.(*model.Collection)
		require.True(t, ok)
		assert.Equal(t, model.List, coll.Of)
		assert.Same(t, root, coll.Elem)
		assert.False(t, children.Nullable)
		assert.Equal(t, "java.util.List<com.example.Root>", children.Type.QualifiedName())
	})
	t.Run("through definitions", func(t *testing.T) {
		res := mustCompile(t, `{
			"type":"object",
			"properties":{"tree":{"$ref":"#/definitions/tree-node"}},
			"definitions":{"tree-node":{"type":"object","properties":{
				"parent":{"$ref":"#/definitions/tree-node"},
				"kids":{"type":"array","uniqueItems":true,"items":{"$ref":"#/definitions/tree-node"}}
			}}}
		}`)
		require.Len(t, res.Types, 2)
		node := res.Types[1]
		assert.Equal(t, "TreeNode", node.Name)
		assert.Same(t, node, node.Property("parent").Type)
		assert.Equal(t, "java.util.Set<com.example.TreeNode>", node.Property("kids").Type.QualifiedName())
	})
}

func TestCompile_NameCollisions(t *testing.T) {
	src := `{"type":"object","properties":{
		"tree-node":{"type":"object"},
		"tree_node":{"type":"object"},
		"treeNode":{"type":"object"}
	}}`
	run := func() []string {
		res := mustCompile(t, src)
		var names []string
		for _, p := range rootDef(t, res).Properties {
			names = append(names, p.Type.(*model.Definition).Name)
		}
		return names
	}
	assert.Equal(t, []string{"TreeNode", "TreeNode__1", "TreeNode__2"}, run())
	assert.Equal(t, run(), run())
}

func TestCompile_NameAllocationExhausted(t *testing.T) {
	c, err := compiler.New(compiler.Options{Namespace: "com.example", MaxNameAttempts: 1, Store: schema.NewStore(schema.MapLoader{})})
	require.NoError(t, err)
	_, err = compileJSON(t, c, `{"type":"object","properties":{"a-b":{"type":"object"},"a_b":{"type":"object"},"aB":{"type":"object"}}}`)
	require.ErrorIs(t, err, compiler.ErrNameAllocationExhausted)
}

func TestCompile_SharedCompilerAcrossDocuments(t *testing.T) {
	c := newCompiler(t, nil, nil)
	first, err := schema.ParseJSON("a/order.json", []byte(`{"type":"object"}`))
	require.NoError(t, err)
	second, err := schema.ParseJSON("b/order.json", []byte(`{"type":"object"}`))
	require.NoError(t, err)

	r1, err := c.Compile(first, "")
	require.NoError(t, err)
	r2, err := c.Compile(second, "")
	require.NoError(t, err)
	assert.Equal(t, "Order", rootDef(t, r1).Name)
	assert.Equal(t, "Order__1", rootDef(t, r2).Name)
	assert.Len(t, c.Types(), 2)
}

func TestCompile_FailureLeavesNoTrace(t *testing.T) {
	c := newCompiler(t, nil, nil)
	_, err := compileJSON(t, c, `{"type":"object","properties":{"a":{"type":"object"},"b":{"type":"object","extendsJavaClass":"x.Y"}}}`)
	require.ErrorIs(t, err, compiler.ErrUnsupportedExtension)
	assert.Empty(t, c.Types())

	res, err := compileJSON(t, c, `{"type":"object","properties":{"a":{"type":"object"}}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "A"}, []string{res.Types[0].Name, res.Types[1].Name})
}

func TestCompile_FailureDropsItsWarnings(t *testing.T) {
	c := newCompiler(t, nil, schema.MapLoader{
		"shared.json": []byte(`{"type":"object","properties":{"x":{"type":"string"},"x":{"type":"string","format":"zip"}}}`),
	})
	_, err := compileJSON(t, c, `{"type":"object","properties":{"s":{"$ref":"shared.json"},"bad":{"type":"object","extendsJavaClass":"x.Y"}}}`)
	require.ErrorIs(t, err, compiler.ErrUnsupportedExtension)
	assert.False(t, c.Diag().HasWarnings())

	// the shared document is checked again by the next successful call
	_, err = compileJSON(t, c, `{"type":"object","properties":{"s":{"$ref":"shared.json"}}}`)
	require.NoError(t, err)
	ws := c.Diag().Warnings()
	require.Len(t, ws, 2)
	assert.Contains(t, ws[0], `shared.json#/properties: duplicate key "x"`)
	assert.Contains(t, ws[1], `unknown format "zip"`)
}

func TestCompile_YAMLAliasesShareDefinition(t *testing.T) {
	doc, err := schema.ParseYAML("shapes.yaml", []byte(`
type: object
properties:
  primary: &color
    type: object
    properties:
      hex: {type: string}
  secondary: *color
`))
	require.NoError(t, err)
	res, err := newCompiler(t, nil, nil).Compile(doc, "")
	require.NoError(t, err)
	require.Len(t, res.Types, 2)
	root := rootDef(t, res)
	assert.Equal(t, "Shapes", root.Name)
	assert.Equal(t, "Primary", res.Types[1].Name)
	assert.Same(t, root.Property("primary").Type, root.Property("secondary").Type)
}

func TestCompile_ErrorLocation(t *testing.T) {
	_, err := compileJSON(t, newCompiler(t, nil, nil), `{"type":"object","properties":{"a":{"type":"object","extends":{"type":"object"}}}}`)
	require.ErrorIs(t, err, compiler.ErrInvalidSupertype)
	ce, ok := compiler.AsError(err)
	require.True(t, ok)
	assert.Equal(t, compiler.CodeInvalidSupertype, ce.Code)
	assert.Equal(t, "root.json", ce.Document)
	assert.Equal(t, "/properties/a/extends", ce.Pointer)
	assert.Contains(t, err.Error(), "root.json#/properties/a/extends")
	assert.NotErrorIs(t, err, compiler.ErrMalformedSchema)
}

func TestCompile_Warnings(t *testing.T) {
	c := newCompiler(t, nil, nil)
	_, err := compileJSON(t, c, `{"type":"object","properties":{"a":{"type":"string","format":"zip-code"},"b":{"type":"array","items":[{"type":"string"}]}}}`)
	require.NoError(t, err)
	require.True(t, c.Diag().HasWarnings())
	ws := c.Diag().Warnings()
	require.Len(t, ws, 2)
	assert.Contains(t, ws[0], `unknown format "zip-code"`)
	assert.Contains(t, ws[1], "tuple items")
}

func TestCompile_DuplicateKeys(t *testing.T) {
	src := `{"type":"object","properties":{"a":{"type":"string"},"a":{"type":"integer"}}}`

	c := newCompiler(t, nil, nil)
	res, err := compileJSON(t, c, src)
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Integer", rootDef(t, res).Property("a").Type.QualifiedName())
	require.Len(t, c.Diag().Warnings(), 1)
	assert.Contains(t, c.Diag().Warnings()[0], `root.json#/properties: duplicate key "a"`)

	cfg := config.Default()
	cfg.RejectDuplicateKeys = true
	_, err = compileJSON(t, newCompiler(t, cfg, nil), src)
	require.ErrorIs(t, err, compiler.ErrMalformedSchema)
}

func TestRootName(t *testing.T) {
	assert.Equal(t, "order", compiler.RootName("schemas/order.json"))
	assert.Equal(t, "line-item", compiler.RootName("/tmp/line-item.yaml#/definitions"))
	assert.Equal(t, "Root", compiler.RootName(""))
}
