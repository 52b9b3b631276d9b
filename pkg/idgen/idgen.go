// Package idgen provides node and edge identifier generation for diagram builds.
//
// Node ids are content-derived whenever the raw record carries a usable
// identifier (kind prefix + raw id), so repeated imports of the same inventory
// mint the same ids. Records without any extractable identifier receive a
// short, URL-safe random id backed by nanoid. A Generator is created per
// import and passed down explicitly; there is no package-level counter state
// to leak between independent imports.
package idgen

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random portion of
// fallback ids.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated for fallback ids
// (excluding the prefix).
var Length = 10

// Generator mints node ids for a single import.
type Generator struct {
	random func() string
}

// New returns a Generator backed by nanoid for fallback ids.
func New() *Generator {
	return &Generator{
		random: func() string { return nanoid.MustGenerate(Alphabet, Length) },
	}
}

// NewWithRandom returns a Generator whose random portion comes from fn.
// Useful in tests that need reproducible fallback ids.
func NewWithRandom(fn func() string) *Generator {
	return &Generator{random: fn}
}

// NodeID returns the id for a node of the given kind prefix. When raw is
// non-empty the id is content-derived (prefix + "-" + raw); otherwise a
// fresh random id is generated.
func (g *Generator) NodeID(prefix, raw string) string {
	if raw != "" {
		return prefix + "-" + raw
	}
	return prefix + "-" + g.random()
}

// EdgeID returns the deterministic id for an edge between two nodes.
func EdgeID(category, source, target string) string {
	return category + "-" + source + "-" + target
}
