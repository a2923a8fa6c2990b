// Package validator is the tier-ordered registry of spec §4.5: each
// validator declares its tier and prerequisites, the registry filters and
// sorts by priority, and the diagnostic orchestrator drains the result.
package validator

import (
	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

// Tier is a validator's scheduling bucket.
type Tier int

const (
	// Immediate runs on push diagnostics, same-file only, no artifact
	// loading.
	Immediate Tier = 1
	// Thorough runs on pull diagnostics, after the orchestrator's
	// cross-file resolution pass. Missing artifacts are not loaded; a type
	// that no registered file declares stays unresolved.
	Thorough Tier = 2
)

func (t Tier) String() string {
	if t == Thorough {
		return "THOROUGH"
	}
	return "IMMEDIATE"
}

// Prerequisites gates whether a validator can run against a given table.
type Prerequisites struct {
	RequiredDetailLevel        models.DetailLevel
	RequiresReferences         bool
	RequiresCrossFileResolution bool
}

// Context is everything a validator's Run needs: the file's symbol table,
// its current enrichment level, the process-wide graph (nil-safe —
// THOROUGH validators that need it must check), and whether cross-file
// resolution has actually run for this table yet.
type Context struct {
	Table                  *symboltable.Table
	DetailLevel            models.DetailLevel
	Graph                  *symbolgraph.Graph
	CrossFileResolutionRan bool
}

// Validator is one semantic check, per spec §4.5's descriptor.
type Validator interface {
	ID() string
	Tier() Tier
	Priority() int
	Prerequisites() Prerequisites
	Run(ctx Context) models.ValidationResult
}

// satisfied reports whether ctx meets p.
func satisfied(p Prerequisites, ctx Context) bool {
	if ctx.DetailLevel < p.RequiredDetailLevel {
		return false
	}
	if p.RequiresReferences && len(ctx.Table.References()) == 0 {
		return false
	}
	if p.RequiresCrossFileResolution && !ctx.CrossFileResolutionRan {
		return false
	}
	return true
}
