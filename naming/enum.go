package naming

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// ConstantName derives an enum constant identifier from its value.
func ConstantName(value string) string {
	name := ReplaceIllegal(strcase.ToScreamingSnake(Fold(value)))
	name = strings.Trim(name, "_")
	switch {
	case name == "":
		return "__EMPTY__"
	case name[0] >= '0' && name[0] <= '9':
		return "_" + name
	}
	return name
}

// ConstantNames derives constant names for values in order, disambiguating
// duplicates the same way type names are.
func ConstantNames(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		name := ConstantName(v)
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			name = MakeUnique(name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
