package resolver

import (
	"net/url"

	"github.com/arthur-debert/sgrep/pkg/config"
)

// Document is one parsed rule document: a tree of scalars, sequences,
// and mappings as produced by the YAML parser. An empty document is a
// non-nil Document with a nil Tree; a nil *Document in a ConfigSet is
// the absence marker.
type Document struct {
	Tree interface{}
}

// ConfigSet maps config ids to parsed documents. A nil entry records a
// source that was attempted but could not be loaded (missing default,
// syntax error, transport failure). Both outcomes live in the same map;
// only fatal conditions leave this type entirely.
type ConfigSet map[string]*Document

// Valid reports whether every entry holds a parsed document.
func (c ConfigSet) Valid() bool {
	for _, doc := range c {
		if doc == nil {
			return false
		}
	}
	return true
}

// Invalid returns the ids of absence entries, if any.
func (c ConfigSet) Invalid() []string {
	var ids []string
	for id, doc := range c {
		if doc == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// SpecifierKind classifies where a configuration comes from.
type SpecifierKind int

const (
	// SpecifierAbsent means no specifier was supplied; defaults are probed
	SpecifierAbsent SpecifierKind = iota

	// SpecifierRegistry is an exact registry alias hit
	SpecifierRegistry

	// SpecifierURL is anything with an http(s) scheme and a host
	SpecifierURL

	// SpecifierPath is everything else: a filesystem path
	SpecifierPath
)

// Classify determines the specifier kind. Classification is purely
// syntactic and ordered: empty, registry table membership, URL shape,
// then path as the catch-all.
func Classify(spec string, settings config.Settings) SpecifierKind {
	if spec == "" {
		return SpecifierAbsent
	}
	if _, ok := settings.LookupRegistry(spec); ok {
		return SpecifierRegistry
	}
	if isURL(spec) {
		return SpecifierURL
	}
	return SpecifierPath
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
