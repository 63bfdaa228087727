// Package compiler turns schema node graphs into model definitions.
//
// Compilation is a synchronous depth-first descent. Object and enum nodes
// are memoized by node identity, so a schema reached through several
// references yields one definition and self-referential schemas terminate
// with a forward reference to the definition being built. The first error
// aborts the document and is reported as an *Error whose Code matches one
// of the Err sentinels.
package compiler
