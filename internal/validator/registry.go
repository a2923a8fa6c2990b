package validator

import (
	"sort"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

// Registry holds every registered Validator, regardless of tier.
type Registry struct {
	validators []Validator
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds v to the registry.
func (r *Registry) Register(v Validator) {
	r.validators = append(r.validators, v)
}

// RunForTier filters the registry's validators to those in tier whose
// prerequisites ctx satisfies, sorts by priority (lower runs first), runs
// each in order, and returns the concatenated, deduplicated result (spec
// §4.5: dedup key is (code, range, message)).
func (r *Registry) RunForTier(tier Tier, ctx Context) models.ValidationResult {
	var candidates []Validator
	for _, v := range r.validators {
		if v.Tier() != tier {
			continue
		}
		if !satisfied(v.Prerequisites(), ctx) {
			continue
		}
		candidates = append(candidates, v)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority() < candidates[j].Priority()
	})

	var result models.ValidationResult
	for _, v := range candidates {
		result.Merge(v.Run(ctx))
	}
	return dedupe(result)
}

type dedupeKey struct {
	code    string
	rng     models.Range
	message string
}

func dedupe(in models.ValidationResult) models.ValidationResult {
	seen := make(map[dedupeKey]bool)
	var out models.ValidationResult
	for _, d := range in.Errors {
		k := dedupeKey{d.Code, d.Range, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out.Errors = append(out.Errors, d)
	}
	for _, d := range in.Warnings {
		k := dedupeKey{d.Code, d.Range, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out.Warnings = append(out.Warnings, d)
	}
	return out
}
