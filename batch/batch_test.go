package batch_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/immuskema/batch"
	"github.com/reoring/immuskema/compiler"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

func names(types []*model.Definition) []string {
	out := make([]string, 0, len(types))
	for _, d := range types {
		out = append(out, d.QualifiedName())
	}
	return out
}

func TestCompile_MergesInInputOrder(t *testing.T) {
	loader := schema.MapLoader{
		"a/order.json": []byte(`{"type":"object","properties":{"customer":{"type":"object"}}}`),
		"b/order.json": []byte(`{"type":"object","properties":{"customer":{"type":"object"},"lines":{"type":"array","items":{"$ref":"#"}}}}`),
		"c/user.json":  []byte(`{"type":"object","properties":{"manager":{"$ref":"#"}}}`),
	}
	sources := []batch.Source{{URI: "a/order.json"}, {URI: "b/order.json"}, {URI: "c/user.json"}}

	res, err := batch.Compile(context.Background(), sources, batch.Options{Namespace: "com.example", Loader: loader, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"com.example.Order",
		"com.example.Customer",
		"com.example.Order__1",
		"com.example.Customer__1",
		"com.example.User",
	}, names(res.Types))
	assert.Equal(t, []batch.Rename{
		{URI: "b/order.json", From: "com.example.Order", To: "com.example.Order__1"},
		{URI: "b/order.json", From: "com.example.Customer", To: "com.example.Customer__1"},
	}, res.Renames)

	// references follow the rename
	second := res.Documents[1].Root.(*model.Definition)
	lines := second.Property("lines").Type.(*model.Collection)
	assert.Equal(t, "java.util.List<com.example.Order__1>", lines.QualifiedName())
	assert.Empty(t, res.Failed())
}

func TestCompile_DeterministicUnderConcurrency(t *testing.T) {
	faker := gofakeit.New(3)
	loader := schema.MapLoader{}
	var sources []batch.Source
	for i := 0; i < 24; i++ {
		uri := fmt.Sprintf("doc%02d.json", i)
		prop := faker.RandomString([]string{"item", "owner", "address", "tag"})
		loader[uri] = []byte(fmt.Sprintf(`{"type":"object","properties":{%q:{"type":"object"},"n":{"type":"integer","default":%d}}}`, prop, i))
		sources = append(sources, batch.Source{URI: uri, Name: faker.RandomString([]string{"Node", "Entry"})})
	}
	run := func(limit int) []string {
		res, err := batch.Compile(context.Background(), sources, batch.Options{Loader: loader, Limit: limit})
		require.NoError(t, err)
		return names(res.Types)
	}
	serial := run(1)
	assert.Equal(t, serial, run(8))
	assert.Len(t, serial, 48)

	seen := map[string]bool{}
	for _, n := range serial {
		require.False(t, seen[n], n)
		seen[n] = true
	}
}

func TestCompile_SharedSchemaIsCompiledOnce(t *testing.T) {
	loader := schema.MapLoader{
		"common/address.json": []byte(`{"type":"object","properties":{
			"street":{"type":"string"},
			"unit":{"$ref":"#/definitions/unit"}
		},"definitions":{"unit":{"type":"string","enum":["km","mi"]}}}`),
		"order.json": []byte(`{"type":"object","properties":{"shipTo":{"$ref":"common/address.json"}}}`),
		"user.json": []byte(`{"type":"object","properties":{
			"home":{"$ref":"common/address.json"},
			"previous":{"type":"array","items":{"$ref":"common/address.json"}},
			"unit":{"$ref":"common/address.json#/definitions/unit","default":"km"}
		}}`),
	}
	sources := []batch.Source{{URI: "order.json"}, {URI: "user.json"}}

	res, err := batch.Compile(context.Background(), sources, batch.Options{Namespace: "com.example", Loader: loader, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"com.example.Order",
		"com.example.Address",
		"com.example.Unit",
		"com.example.User",
	}, names(res.Types))
	assert.Empty(t, res.Renames)

	order := res.Documents[0].Root.(*model.Definition)
	address := order.Property("shipTo").Type.(*model.Definition)
	unit := address.Property("unit").Type.(*model.Definition)

	user := res.Documents[1].Root.(*model.Definition)
	assert.Same(t, address, user.Property("home").Type)
	assert.Same(t, address, user.Property("previous").Type.(*model.Collection).Elem)
	assert.Same(t, unit, user.Property("unit").Type)
	assert.Equal(t, "com.example.Unit.fromValue(\"km\")", user.Property("unit").Default.String())
	assert.Equal(t, []string{"com.example.User", "com.example.Address", "com.example.Unit"}, names(res.Documents[1].Types))
}

func TestCompile_Failures(t *testing.T) {
	loader := schema.MapLoader{
		"ok.json":  []byte(`{"type":"object"}`),
		"bad.json": []byte(`{"type":"object","extendsJavaClass":"x.Y"}`),
	}
	sources := []batch.Source{{URI: "ok.json"}, {URI: "bad.json"}, {URI: "missing.json"}}

	_, err := batch.Compile(context.Background(), sources, batch.Options{Loader: loader, Limit: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, compiler.ErrUnsupportedExtension)

	res, err := batch.Compile(context.Background(), sources, batch.Options{Loader: loader, KeepGoing: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ok"}, names(res.Types))
	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "bad.json", failed[0].URI)
	assert.Equal(t, "missing.json", failed[1].URI)
}

func TestCompile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := batch.Compile(ctx, []batch.Source{{URI: "x.json"}}, batch.Options{Loader: schema.MapLoader{}})
	require.ErrorIs(t, err, context.Canceled)
}
