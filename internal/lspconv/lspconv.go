// Package lspconv converts the core's 1-based-line positions (spec §3) to
// the LSP wire protocol's 0-based lines/columns (spec §6), at the one
// boundary where that conversion belongs: the outbound diagnostic.
package lspconv

import "github.com/forcedotcom/apexls-core/pkg/models"

// Position is an LSP-protocol position: 0-based line and column.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP-protocol half-open span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is the LSP-protocol diagnostic shape spec §6 names explicitly.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
}

// FromPosition converts a core Position (1-based line) to its LSP form
// (0-based line). Column is already 0-based in both representations.
func FromPosition(p models.Position) Position {
	return Position{Line: p.Line - 1, Character: p.Column}
}

// FromRange converts a core Range to its LSP form.
func FromRange(r models.Range) Range {
	return Range{Start: FromPosition(r.Start), End: FromPosition(r.End)}
}

// FromDiagnostic converts a core Diagnostic to its LSP wire form.
func FromDiagnostic(d models.Diagnostic) Diagnostic {
	return Diagnostic{
		Range:    FromRange(d.Range),
		Message:  d.Message,
		Severity: int(d.Severity),
		Code:     d.Code,
		Source:   d.Source,
	}
}

// FromDiagnostics converts a slice, preserving order.
func FromDiagnostics(ds []models.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = FromDiagnostic(d)
	}
	return out
}
