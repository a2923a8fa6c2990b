package listener

import "github.com/forcedotcom/apexls-core/pkg/models"

// declState is the per-declaration scratch space a listener accumulates
// while walking a class/method/field/variable declaration's modifier and
// annotation children, before the declaration node itself is emitted as a
// symbol. It is pushed on enter and popped (discarded) on exit, per spec
// §4.2: "cleared on the exit of each declaration so flags do not leak to
// siblings".
type declState struct {
	modifiers   models.Modifiers
	annotations []string
	parameters  []models.Parameter
	seenNames   map[string]bool // for duplicate-variable / duplicate-enum-value detection within one declarator list
}

func newDeclState() *declState {
	return &declState{seenNames: make(map[string]bool)}
}

// declStack is a simple LIFO of declState, scoped to one Walker instance.
type declStack struct {
	frames []*declState
}

func (s *declStack) push() *declState {
	d := newDeclState()
	s.frames = append(s.frames, d)
	return d
}

func (s *declStack) pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *declStack) top() *declState {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// applyModifierToken folds one modifier keyword or annotation text into the
// current declState.
func applyModifierToken(d *declState, token string) {
	switch token {
	case "public":
		d.modifiers.Visibility = models.VisibilityPublic
	case "private":
		d.modifiers.Visibility = models.VisibilityPrivate
	case "protected":
		d.modifiers.Visibility = models.VisibilityProtected
	case "global":
		d.modifiers.Visibility = models.VisibilityGlobal
	case "static":
		d.modifiers.Static = true
	case "final":
		d.modifiers.Final = true
	case "abstract":
		d.modifiers.Abstract = true
	case "virtual":
		d.modifiers.Virtual = true
	case "override":
		d.modifiers.Override = true
	case "transient":
		d.modifiers.Transient = true
	case "testmethod":
		d.modifiers.TestMethod = true
	case "webservice":
		d.modifiers.WebService = true
	}
}

// conflictingModifiers reports modifier pairs that never legally co-occur
// on an Apex declaration (e.g. `final` + `abstract`).
func conflictingModifiers(m models.Modifiers) bool {
	if m.Final && m.Abstract {
		return true
	}
	if m.Abstract && m.Virtual {
		return true
	}
	if m.Final && m.Override {
		// final methods may still override; this is intentionally not
		// flagged. Kept as a documented non-conflict.
		return false
	}
	return false
}
