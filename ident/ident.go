// Package ident defines namespaced identities shared by blocks, items, and
// recipes.
package ident

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace is assumed when an identity is written without one.
const DefaultNamespace = "minecraft"

// Air is the identity of an empty position. Recipe matchers treat it as a
// wildcard.
const Air ID = "minecraft:air"

// ErrInvalidID is returned when a string cannot be decoded as an ID.
var ErrInvalidID = errors.New("ident: invalid id")

// An ID is a namespaced identity in the form of "namespace:path".
type ID string

// Parse decodes a string into an ID. A string without a namespace is placed in
// the default namespace.
func Parse(s string) (ID, error) {
	namespace := DefaultNamespace
	path := s

	if i := strings.IndexByte(s, ':'); i >= 0 {
		namespace = s[:i]
		path = s[i+1:]
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}

	if path == "" {
		return "", fmt.Errorf("%w: %q has an empty path", ErrInvalidID, s)
	}

	if !validChars(namespace, false) {
		return "", fmt.Errorf("%w: bad namespace in %q", ErrInvalidID, s)
	}

	if !validChars(path, true) {
		return "", fmt.Errorf("%w: bad path in %q", ErrInvalidID, s)
	}

	return ID(namespace + ":" + path), nil
}

// MustParse is like Parse but panics on a malformed string.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return id
}

func validChars(s string, allowSlash bool) bool {
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		case c == '/' && allowSlash:
		default:
			return false
		}
	}

	return true
}

// Namespace returns the part before the colon.
func (id ID) Namespace() string {
	ns, _, found := strings.Cut(string(id), ":")
	if !found {
		return DefaultNamespace
	}

	return ns
}

// Path returns the part after the colon.
func (id ID) Path() string {
	_, path, found := strings.Cut(string(id), ":")
	if !found {
		return string(id)
	}

	return path
}

// IsAir returns true if the ID refers to an empty position. The zero ID is
// considered air.
func (id ID) IsAir() bool {
	return id == "" || id == Air
}

func (id ID) String() string {
	return string(id)
}
