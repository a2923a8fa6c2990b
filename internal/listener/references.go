package listener

import "github.com/forcedotcom/apexls-core/pkg/models"

// The functions in this file implement the reference-classification rules
// of spec §4.3. Each takes the already-extracted name/location pairs for
// one syntactic construct and returns the References it produces; the
// Walker calls these from its node-type dispatch once it recognizes the
// shape of an assignment, field access, array access, or qualified call.

// ClassifySimpleAssignment handles `a = b;`: the LHS becomes a write, the
// RHS a read.
func ClassifySimpleAssignment(lhsName string, lhsLoc models.Location, rhsName string, rhsLoc models.Location) []models.Reference {
	return []models.Reference{
		{Name: lhsName, Location: lhsLoc, Context: models.ContextVariableUsage, Access: models.AccessWrite},
		{Name: rhsName, Location: rhsLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
	}
}

// ClassifyCompoundAssignment handles `a += b;`: the LHS is read and written
// (readwrite), the RHS is a read.
func ClassifyCompoundAssignment(lhsName string, lhsLoc models.Location, rhsName string, rhsLoc models.Location) []models.Reference {
	return []models.Reference{
		{Name: lhsName, Location: lhsLoc, Context: models.ContextVariableUsage, Access: models.AccessReadWrite},
		{Name: rhsName, Location: rhsLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
	}
}

// ClassifyFieldAccessAssignment handles `obj.x = y;`: obj is read, x is a
// field-access write, y is a read.
func ClassifyFieldAccessAssignment(objName string, objLoc models.Location, fieldName string, fieldLoc models.Location, rhsName string, rhsLoc models.Location) []models.Reference {
	return []models.Reference{
		{Name: objName, Location: objLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
		{Name: fieldName, Location: fieldLoc, Context: models.ContextFieldAccess, Access: models.AccessWrite, Qualifier: objName, QualifierLocation: &objLoc},
		{Name: rhsName, Location: rhsLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
	}
}

// ClassifyArrayAccessAssignment handles `arr[i] = v;`: arr, i, and v are all
// reads (the write lands on the container, not a distinguishable element
// symbol).
func ClassifyArrayAccessAssignment(arrName string, arrLoc models.Location, idxName string, idxLoc models.Location, valName string, valLoc models.Location) []models.Reference {
	return []models.Reference{
		{Name: arrName, Location: arrLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
		{Name: idxName, Location: idxLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
		{Name: valName, Location: valLoc, Context: models.ContextVariableUsage, Access: models.AccessRead},
	}
}

// KnownTypeLookup reports whether name is a type declared in the same file,
// so ClassifyQualifiedCall can distinguish `Cls.method()` from
// `someVariable.method()`.
type KnownTypeLookup func(name string) bool

// ClassifyQualifiedCall handles `Cls.method(args)`. When qualifier is a
// known same-file type, it becomes CLASS_REFERENCE and the call becomes a
// METHOD_CALL with qualifier=Cls; otherwise the qualifier stays
// VARIABLE_USAGE, pending a later enableReferenceCorrection pass (spec
// §4.3) once the type becomes resolvable.
func ClassifyQualifiedCall(qualifier string, qualifierLoc models.Location, method string, methodLoc models.Location, isKnownType KnownTypeLookup) []models.Reference {
	qualCtx := models.ContextVariableUsage
	if isKnownType != nil && isKnownType(qualifier) {
		qualCtx = models.ContextClassReference
	}
	return []models.Reference{
		{Name: qualifier, Location: qualifierLoc, Context: qualCtx},
		{
			Name: method, Location: methodLoc, Context: models.ContextMethodCall,
			Qualifier: qualifier, QualifierLocation: &qualifierLoc,
		},
	}
}

// ClassifyChainedType handles `System.Url` and other multi-segment type
// names: a single CHAINED_TYPE reference carrying the full segment list,
// trimmed to models.MaxChainLength.
func ClassifyChainedType(segments []models.ChainNode, loc models.Location) models.Reference {
	if len(segments) > models.MaxChainLength {
		segments = segments[:models.MaxChainLength]
	}
	name := ""
	if len(segments) > 0 {
		name = segments[len(segments)-1].Name
	}
	return models.Reference{
		Name:       name,
		Location:   loc,
		Context:    models.ContextChainedType,
		ChainNodes: segments,
	}
}

// ClassifyLiteral handles integer/long/decimal/string/boolean/null literal
// tokens.
func ClassifyLiteral(litType models.LiteralType, value string, loc models.Location) models.Reference {
	return models.Reference{
		Location:     loc,
		Context:      models.ContextLiteral,
		LiteralType:  litType,
		LiteralValue: value,
	}
}
