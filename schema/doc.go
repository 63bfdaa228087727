// Package schema loads JSON and YAML schema documents into an ordered,
// read-only node tree and resolves $ref targets across documents.
//
// Object keys keep their source order (properties compile in that order),
// numbers keep their exact text, and each *Node has a stable identity for the
// lifetime of the Store that produced it.
package schema
