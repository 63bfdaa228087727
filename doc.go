// Package immuskema compiles JSON Schema documents into a model of
// immutable types: abstract definitions with accessor signatures,
// interface supertypes, required/optional/default semantics and
// collision-free names.
//
// Layout:
//
// - schema holds the ordered document tree, $ref lookup and the document store
// - naming derives identifiers and allocates unique type names
// - model is the compiled output
// - compiler is the rule engine; batch runs it over many documents
// - cmd/immuskema writes a JSON model manifest for emitters
//
// Typical usage:
//
//	res, err := immuskema.Compile(immuskema.File("schemas/order.json"), immuskema.CompileOpt{Namespace: "com.example"})
//	for _, def := range res.Types {
//		fmt.Println(def.QualifiedName())
//	}
package immuskema
