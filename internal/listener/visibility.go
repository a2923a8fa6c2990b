package listener

import "github.com/forcedotcom/apexls-core/pkg/models"

// Visibility describes one of the four layered listeners from spec §4.2:
// which declaration visibilities it emits, and whether it descends into
// method bodies to emit locals and block scopes.
type Visibility struct {
	Name          string
	DetailLevel   models.DetailLevel
	Visibilities  map[models.Visibility]bool
	EmitLocals    bool
}

func (v Visibility) emits(vis models.Visibility) bool {
	return v.Visibilities[vis]
}

// PublicAPI emits only global/public declarations; no locals or bodies.
var PublicAPI = Visibility{
	Name:        "public-api",
	DetailLevel: models.DetailPublicAPI,
	Visibilities: map[models.Visibility]bool{
		models.VisibilityGlobal: true,
		models.VisibilityPublic: true,
	},
}

// Protected additionally emits protected members.
var Protected = Visibility{
	Name:        "protected",
	DetailLevel: models.DetailProtected,
	Visibilities: map[models.Visibility]bool{
		models.VisibilityGlobal:    true,
		models.VisibilityPublic:    true,
		models.VisibilityProtected: true,
	},
}

// Private additionally emits private and default-access members.
var Private = Visibility{
	Name:        "private",
	DetailLevel: models.DetailPrivate,
	Visibilities: map[models.Visibility]bool{
		models.VisibilityGlobal:    true,
		models.VisibilityPublic:    true,
		models.VisibilityProtected: true,
		models.VisibilityPrivate:   true,
		models.VisibilityDefault:   true,
	},
}

// Full emits everything, including local variables and block bodies.
var Full = Visibility{
	Name:        "full",
	DetailLevel: models.DetailFull,
	Visibilities: map[models.Visibility]bool{
		models.VisibilityGlobal:    true,
		models.VisibilityPublic:    true,
		models.VisibilityProtected: true,
		models.VisibilityPrivate:   true,
		models.VisibilityDefault:   true,
	},
	EmitLocals: true,
}
