// Package resolver turns a configuration specifier (absent, registry
// alias, URL, or local path) into a set of named, parsed rule documents.
//
// Soft failures (missing defaults, unreachable hosts, invalid YAML) are
// captured as nil entries in the result set so that one bad document
// never hides its siblings. Fatal conditions (explicit path missing,
// bad HTTP status, unknown content type) surface as coded errors; the
// caller decides what a fatal error means for the process.
package resolver
