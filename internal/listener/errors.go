package listener

import "github.com/forcedotcom/apexls-core/pkg/models"

// ErrorSink collects semantic errors raised while walking a single
// declaration (duplicate variables, duplicate enum values, conflicting
// modifiers), per spec §4.2.
type ErrorSink interface {
	Report(d models.Diagnostic)
}

// CollectingSink is the default ErrorSink: an in-memory slice, drained by
// the orchestrator into the file's ValidationResult.
type CollectingSink struct {
	Diagnostics []models.Diagnostic
}

func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

func (s *CollectingSink) Report(d models.Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}
