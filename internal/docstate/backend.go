// Package docstate is the Document State Cache of spec §4.7: compiled
// artifacts for one (uri, version) pair, shared by the diagnostic
// orchestrator across requests so a re-open or a second request against
// the same version never reparses.
package docstate

import "github.com/forcedotcom/apexls-core/pkg/models"

// Entry is everything the orchestrator cached for one compiled version of
// a file. ParseTree and SymbolTable are only ever populated by the
// in-process Backend: a remote backend (valkey_backend.go) cannot
// serialize a live tree-sitter tree or a Table's internal locks across a
// process boundary, so it carries Diagnostics and CompiledAt only — a
// cache hit there still requires the orchestrator to hold (or rebuild) the
// table locally.
type Entry struct {
	ParseTree   any // walker.ParseTree; any to keep this package independent of walker
	SymbolTable any // *symboltable.Table
	Diagnostics []models.Diagnostic
	CompiledAt  int64 // unix millis, stamped by the caller
}

// Key identifies one cached compilation.
type Key struct {
	URI     string
	Version int
}

// Backend is the storage interface the Cache is built on. The default
// in-memory backend satisfies every field of Entry; a Valkey-backed
// implementation only round-trips the JSON-safe subset.
type Backend interface {
	Get(key Key) (Entry, bool)
	Put(key Key, entry Entry)
	// EvictOlderVersions drops every cached entry for uri whose version is
	// less than keepVersion (spec §4.7: "eviction of older versions for a
	// uri is lazy-on-write").
	EvictOlderVersions(uri string, keepVersion int)
}
