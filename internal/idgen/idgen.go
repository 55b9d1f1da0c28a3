package idgen

import "github.com/google/uuid"

// NewFunc produces identifiers; tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// RunID returns an identifier for one lifecycle run of the named tree.
func RunID(tree string) string {
	if tree == "" {
		return New()
	}
	return tree + "/" + New()
}
