package models

// ReferenceContext classifies the syntactic role of a reference use-site.
type ReferenceContext string

const (
	ContextTypeDeclaration        ReferenceContext = "TYPE_DECLARATION"
	ContextParameterType          ReferenceContext = "PARAMETER_TYPE"
	ContextReturnType             ReferenceContext = "RETURN_TYPE"
	ContextVariableDeclaration    ReferenceContext = "VARIABLE_DECLARATION"
	ContextVariableUsage          ReferenceContext = "VARIABLE_USAGE"
	ContextMethodCall             ReferenceContext = "METHOD_CALL"
	ContextConstructorCall        ReferenceContext = "CONSTRUCTOR_CALL"
	ContextFieldAccess            ReferenceContext = "FIELD_ACCESS"
	ContextClassReference         ReferenceContext = "CLASS_REFERENCE"
	ContextChainedType            ReferenceContext = "CHAINED_TYPE"
	ContextChainStep              ReferenceContext = "CHAIN_STEP"
	ContextGenericParameterType   ReferenceContext = "GENERIC_PARAMETER_TYPE"
	ContextCastTypeReference      ReferenceContext = "CAST_TYPE_REFERENCE"
	ContextInstanceofTypeRef      ReferenceContext = "INSTANCEOF_TYPE_REFERENCE"
	ContextLiteral                ReferenceContext = "LITERAL"
)

// AccessKind classifies how a VARIABLE_USAGE/FIELD_ACCESS reference touches
// its target.
type AccessKind string

const (
	AccessRead      AccessKind = "read"
	AccessWrite     AccessKind = "write"
	AccessReadWrite AccessKind = "readwrite"
)

// LiteralType classifies a LITERAL reference's value.
type LiteralType string

const (
	LiteralInteger LiteralType = "Integer"
	LiteralLong    LiteralType = "Long"
	LiteralDecimal LiteralType = "Decimal"
	LiteralString  LiteralType = "String"
	LiteralBoolean LiteralType = "Boolean"
	LiteralNull    LiteralType = "Null"
)

// ChainNode is one segment of a dotted reference, e.g. in `System.Url` the
// chain is [{Name: "System"}, {Name: "Url"}].
type ChainNode struct {
	Name     string
	Location Location
	Context  ReferenceContext
}

// MaxChainLength bounds the number of segments captured for a CHAINED_TYPE
// reference. Unbounded in the source system; pinned here per spec §9's open
// question to keep degenerate dotted names from growing without limit.
const MaxChainLength = 8

// Reference is an edge from a use-site to a (possibly not-yet-resolved)
// symbol.
type Reference struct {
	Name             string
	Location         Location
	Context          ReferenceContext
	Access           AccessKind // only set for VARIABLE_USAGE / FIELD_ACCESS
	Qualifier        string
	QualifierLocation *Location
	MemberLocation    *Location
	ChainNodes       []ChainNode
	ResolvedSymbolID string
	SourceSymbolID   string // id of the symbol this reference occurs inside (its declaration site)
	ParentContext    string // enclosing method/constructor name, for debugging
	FileURI          string

	LiteralType  LiteralType
	LiteralValue string
}

// IsResolved reports whether the reference has been linked to a symbol.
func (r Reference) IsResolved() bool {
	return r.ResolvedSymbolID != ""
}
