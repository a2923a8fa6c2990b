package listener

// Node type names the walker dispatches on. The real Apex grammar is an
// external collaborator (spec §2); these names follow the Java-family
// tree-sitter convention the teacher's internal/parser/java package already
// walks, since Apex syntax is Java-shaped.
const (
	nodeClassDecl     = "class_declaration"
	nodeInterfaceDecl = "interface_declaration"
	nodeEnumDecl      = "enum_declaration"
	nodeTriggerDecl   = "trigger_declaration"
	nodeEnumConstant  = "enum_constant"
	nodeMethodDecl    = "method_declaration"
	nodeConstructor   = "constructor_declaration"
	nodeFieldDecl     = "field_declaration"
	nodePropertyDecl  = "property_declaration"
	nodeLocalVarDecl  = "local_variable_declaration"
	nodeVarDeclarator = "variable_declarator"
	nodeParameter     = "formal_parameter"
	nodeModifiers     = "modifiers"
	nodeAnnotation    = "annotation"
	nodeIdentifier    = "identifier"
	nodeTypeIdent     = "type_identifier"
	nodeSuperclass    = "superclass"
	nodeInterfaces    = "super_interfaces"

	nodeBlock       = "block"
	nodeIfStmt      = "if_statement"
	nodeWhileStmt   = "while_statement"
	nodeDoStmt      = "do_statement"
	nodeForStmt     = "for_statement"
	nodeTryStmt     = "try_statement"
	nodeCatchClause = "catch_clause"
	nodeFinally     = "finally_clause"
	nodeSwitchStmt  = "switch_statement"
	nodeWhenClause  = "when_clause"
	nodeRunAsStmt   = "run_as_statement"

	nodeAssignment       = "assignment_expression"
	nodeCompoundAssign   = "compound_assignment_expression"
	nodeFieldAccess      = "field_access"
	nodeArrayAccess      = "array_access"
	nodeMethodInvocation = "method_invocation"
	nodeScopedTypeName   = "scoped_type_identifier"
	nodeIntLiteral       = "int_literal"
	nodeLongLiteral      = "long_literal"
	nodeDecimalLiteral   = "decimal_literal"
	nodeStringLiteral    = "string_literal"
	nodeBoolLiteral      = "boolean_literal"
	nodeNullLiteral      = "null_literal"
)
