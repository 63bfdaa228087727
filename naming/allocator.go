package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// DefaultMaxAttempts bounds the suffixing loop of Allocate.
const DefaultMaxAttempts = 1000

// ErrExhausted is returned when no free name is found within MaxAttempts.
var ErrExhausted = errors.New("naming: no free name")

var uniqueSuffix = regexp.MustCompile(`^(.*)__([0-9]+)$`)

// Allocator hands out names that are unique per namespace. Allocation is a
// pure function of the request sequence, so replaying the same requests
// yields the same names. Not safe for concurrent use.
type Allocator struct {
	MaxAttempts int
	taken       map[string]map[string]struct{}
}

func NewAllocator() *Allocator {
	return &Allocator{MaxAttempts: DefaultMaxAttempts, taken: make(map[string]map[string]struct{})}
}

// Taken reports whether name is committed in namespace.
func (a *Allocator) Taken(name, namespace string) bool {
	_, ok := a.taken[namespace][name]
	return ok
}

// Reserve commits exactly name; it reports false when it was already taken.
func (a *Allocator) Reserve(name, namespace string) bool {
	if a.Taken(name, namespace) {
		return false
	}
	ns, ok := a.taken[namespace]
	if !ok {
		ns = make(map[string]struct{})
		a.taken[namespace] = ns
	}
	ns[name] = struct{}{}
	return true
}

// Allocate commits candidate, or the first free MakeUnique derivation of it.
func (a *Allocator) Allocate(candidate, namespace string) (string, error) {
	max := a.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	name := candidate
	for i := 0; i <= max; i++ {
		if a.Reserve(name, namespace) {
			return name, nil
		}
		name = MakeUnique(name)
	}
	return "", fmt.Errorf("%w: %q in namespace %q after %d attempts", ErrExhausted, candidate, namespace, max)
}

// MakeUnique derives the next candidate: "Name" -> "Name__1",
// "Name__1" -> "Name__2".
func MakeUnique(name string) string {
	if m := uniqueSuffix.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1] + "__" + strconv.Itoa(n+1)
		}
	}
	return name + "__1"
}

// Release frees name so it can be allocated again.
func (a *Allocator) Release(name, namespace string) {
	delete(a.taken[namespace], name)
}
