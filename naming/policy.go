// Package naming derives target identifiers from schema names and hands
// out collision-free type names per namespace.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/reoring/immuskema/config"
)

// Policy turns schema node names into identifiers.
type Policy struct {
	Prefix     string
	Suffix     string
	Delimiters []rune
}

// NewPolicy reads the naming fields of cfg.
func NewPolicy(cfg *config.Config) Policy {
	return Policy{
		Prefix:     cfg.ClassNamePrefix,
		Suffix:     cfg.ClassNameSuffix,
		Delimiters: cfg.WordDelimiters(),
	}
}

// FieldName camel-cases name on the word delimiters (the first character
// keeps its case), folds it to ASCII and replaces illegal characters.
func (p Policy) FieldName(name string) string {
	return p.normalize(ReplaceIllegal(Fold(p.camel(name))))
}

// ClassName derives a type name candidate. rename, when set, replaces
// name (the "javaName" override).
func (p Policy) ClassName(name, rename string) string {
	if rename != "" {
		name = rename
	}
	full := p.Prefix + Capitalize(p.FieldName(name)) + p.Suffix
	return p.normalize(ReplaceIllegal(Fold(full)))
}

// Decorate applies prefix and suffix to the simple part of a fully
// qualified name and returns (namespace, simple name).
func (p Policy) Decorate(fqn string) (string, string) {
	ns, simple := "", fqn
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		ns, simple = fqn[:i], fqn[i+1:]
	}
	return ns, p.Prefix + simple + p.Suffix
}

// Accessor returns the accessor method name for a property.
func (p Policy) Accessor(name, rename string, primitiveBoolean bool) string {
	if rename != "" {
		name = rename
	}
	prefix := "get"
	if primitiveBoolean {
		prefix = "is"
	}
	field := p.FieldName(name)
	if strings.HasPrefix(field, "_") && len(field) > 1 {
		return prefix + field
	}
	return prefix + Capitalize(field)
}

func (p Policy) normalize(name string) string {
	name = p.camel(name)
	if name == "" {
		return "_"
	}
	if r := rune(name[0]); r >= '0' && r <= '9' {
		name = "_" + name
	}
	return name
}

// camel upper-cases the character after each delimiter and drops the
// delimiters. Names without delimiters are returned unchanged.
func (p Policy) camel(name string) string {
	if !strings.ContainsAny(name, string(p.Delimiters)) {
		return name
	}
	var b strings.Builder
	upNext := false
	for i, r := range name {
		if p.isDelimiter(r) {
			upNext = i > 0 || b.Len() > 0
			continue
		}
		if upNext {
			r = unicode.ToUpper(r)
			upNext = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p Policy) isDelimiter(r rune) bool {
	for _, d := range p.Delimiters {
		if d == r {
			return true
		}
	}
	return false
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Fold decomposes s and drops combining marks, so "Café" becomes "Cafe".
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ReplaceIllegal maps every rune outside [0-9A-Za-z_$] to '_'.
func ReplaceIllegal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
			return r
		}
		return '_'
	}, s)
}

// Singular is a small English singularizer used to name array item types.
func Singular(s string) string {
	lower := strings.ToLower(s)
	switch {
	case len(s) > 3 && strings.HasSuffix(lower, "ies"):
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"):
		return s[:len(s)-2]
	case len(s) > 1 && strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return s[:len(s)-1]
	}
	return s
}
