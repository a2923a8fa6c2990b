// Package listener implements the four layered tree-walkers of spec §4.2.
// All four share this package's walking skeleton and differ only in which
// visibilities and node kinds they emit (see Visibility in visibility.go).
package listener

import (
	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/diagcode"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

// Walker walks one ParseTree against one symboltable.Table, emitting
// symbols at the configured Visibility's detail level.
type Walker struct {
	Table      *symboltable.Table
	Visibility Visibility
	Errors     ErrorSink

	decls      declStack
	knownTypes map[string]bool

	// currentDeclID is the id of the semantic symbol (method/constructor)
	// whose body is presently being walked; references captured while it is
	// set are stamped with it as their SourceSymbolID.
	currentDeclID string
}

// record stamps ref with the enclosing declaration before storing it.
func (w *Walker) record(ref models.Reference) {
	if ref.SourceSymbolID == "" {
		ref.SourceSymbolID = w.currentDeclID
	}
	w.Table.AddTypeReference(ref)
}

// recordHierarchical is record's counterpart for chained references.
func (w *Walker) recordHierarchical(ref models.Reference) {
	if ref.SourceSymbolID == "" {
		ref.SourceSymbolID = w.currentDeclID
	}
	w.Table.AddHierarchicalReference(ref)
}

// New constructs a Walker for one file, one visibility layer.
func New(table *symboltable.Table, vis Visibility, errs ErrorSink) *Walker {
	if errs == nil {
		errs = NewCollectingSink()
	}
	return &Walker{
		Table:      table,
		Visibility: vis,
		Errors:     errs,
		knownTypes: make(map[string]bool),
	}
}

// Walk runs this listener's pass over the file's root node. src is the raw
// file content, needed to resolve identifier node spans to text.
func (w *Walker) Walk(src []byte, root walker.ParseTree) {
	if root == nil {
		return
	}
	w.preScanTypes(src, root)
	for i := 0; i < root.ChildCount(); i++ {
		w.visitTopLevel(src, root.Child(i), nil)
	}
}

// preScanTypes records every top-level type name declared in this file, so
// qualified-call classification (spec §4.3) can tell `Cls.method()` from
// `someVar.method()` without a second file pass.
func (w *Walker) preScanTypes(src []byte, root walker.ParseTree) {
	for i := 0; i < root.ChildCount(); i++ {
		c := root.Child(i)
		switch c.Type() {
		case nodeClassDecl, nodeInterfaceDecl, nodeEnumDecl, nodeTriggerDecl:
			if name := childIdentifierText(src, c); name != "" {
				w.knownTypes[name] = true
			}
		}
	}
}

func (w *Walker) isKnownType(name string) bool { return w.knownTypes[name] }

func (w *Walker) visitTopLevel(src []byte, node walker.ParseTree, enclosing *models.Symbol) {
	if node == nil {
		return
	}
	switch node.Type() {
	case nodeClassDecl:
		w.visitClass(src, node, enclosing)
	case nodeInterfaceDecl:
		w.visitInterfaceLike(src, node, enclosing, models.SymbolKindInterface)
	case nodeEnumDecl:
		w.visitEnum(src, node, enclosing)
	case nodeTriggerDecl:
		w.visitTrigger(src, node, enclosing)
	}
}

func (w *Walker) visitClass(src []byte, node walker.ParseTree, enclosing *models.Symbol) {
	d := w.decls.push()
	defer w.decls.pop()

	w.scanModifiersAndAnnotations(src, node, d)
	name := childIdentifierText(src, node)
	if name == "" {
		return
	}
	if !w.Visibility.emits(effectiveVisibility(d.modifiers)) {
		return
	}

	sym := models.Symbol{
		Name:        name,
		Kind:        models.SymbolKindClass,
		Location:    nodeLocation(node),
		DetailLevel: w.Visibility.DetailLevel,
		Modifiers:   d.modifiers,
		SuperClass:  extractSuperclass(src, node),
		Interfaces:  extractInterfaces(src, node),
	}
	stored := w.Table.AddSymbol(sym, enclosing)

	classScope := w.Table.EnterScope(stored.Name, models.ScopeTypeClass, stored.Location, w.Table.FileURI(), &stored)

	if body := ChildByTypeHelper(node, "class_body", "interface_body", "enum_body"); body != nil {
		for i := 0; i < body.ChildCount(); i++ {
			w.visitMember(src, body.Child(i), &stored, &classScope)
		}
	}
}

func (w *Walker) visitInterfaceLike(src []byte, node walker.ParseTree, enclosing *models.Symbol, kind models.SymbolKind) {
	d := w.decls.push()
	defer w.decls.pop()

	w.scanModifiersAndAnnotations(src, node, d)
	name := childIdentifierText(src, node)
	if name == "" || !w.Visibility.emits(effectiveVisibility(d.modifiers)) {
		return
	}
	sym := models.Symbol{
		Name: name, Kind: kind, Location: nodeLocation(node),
		DetailLevel: w.Visibility.DetailLevel, Modifiers: d.modifiers,
		Interfaces: extractInterfaces(src, node),
	}
	stored := w.Table.AddSymbol(sym, enclosing)
	classScope := w.Table.EnterScope(stored.Name, models.ScopeTypeClass, stored.Location, w.Table.FileURI(), &stored)

	if body := ChildByTypeHelper(node, "interface_body"); body != nil {
		for i := 0; i < body.ChildCount(); i++ {
			w.visitMember(src, body.Child(i), &stored, &classScope)
		}
	}
}

func (w *Walker) visitTrigger(src []byte, node walker.ParseTree, enclosing *models.Symbol) {
	name := childIdentifierText(src, node)
	if name == "" {
		return
	}
	sym := models.Symbol{
		Name: name, Kind: models.SymbolKindTrigger, Location: nodeLocation(node),
		DetailLevel: w.Visibility.DetailLevel,
		Modifiers:   models.Modifiers{Visibility: models.VisibilityPublic},
	}
	stored := w.Table.AddSymbol(sym, enclosing)
	scope := w.Table.EnterScope(stored.Name, models.ScopeTypeClass, stored.Location, w.Table.FileURI(), &stored)
	if w.Visibility.EmitLocals {
		if body := ChildByTypeHelper(node, nodeBlock); body != nil {
			w.visitStatements(src, body, &scope)
		}
	}
}

func (w *Walker) visitEnum(src []byte, node walker.ParseTree, enclosing *models.Symbol) {
	d := w.decls.push()
	defer w.decls.pop()

	w.scanModifiersAndAnnotations(src, node, d)
	name := childIdentifierText(src, node)
	if name == "" || !w.Visibility.emits(effectiveVisibility(d.modifiers)) {
		return
	}

	var values []models.EnumValue
	seen := make(map[string]bool)
	body := ChildByTypeHelper(node, "enum_body")
	if body != nil {
		for i := 0; i < body.ChildCount(); i++ {
			c := body.Child(i)
			if c.Type() != nodeEnumConstant {
				continue
			}
			vname := c.Content(src)
			loc := nodeLocation(c)
			if seen[lowerName(vname)] {
				w.Errors.Report(diagcode.DuplicateEnumValue(loc.IdentifierRange, vname))
				continue
			}
			seen[lowerName(vname)] = true
			values = append(values, models.EnumValue{Name: vname, Location: loc})
		}
	}

	sym := models.Symbol{
		Name: name, Kind: models.SymbolKindEnum, Location: nodeLocation(node),
		DetailLevel: w.Visibility.DetailLevel, Modifiers: d.modifiers, Values: values,
	}
	w.Table.AddSymbol(sym, enclosing)
}

func (w *Walker) visitMember(src []byte, node walker.ParseTree, classSym *models.Symbol, classScope *models.Symbol) {
	if node == nil {
		return
	}
	switch node.Type() {
	case nodeClassDecl:
		w.visitClass(src, node, classSym)
	case nodeInterfaceDecl:
		w.visitInterfaceLike(src, node, classSym, models.SymbolKindInterface)
	case nodeEnumDecl:
		w.visitEnum(src, node, classSym)
	case nodeMethodDecl:
		w.visitMethod(src, node, classScope, false)
	case nodeConstructor:
		w.visitMethod(src, node, classScope, true)
	case nodeFieldDecl:
		w.visitFieldLike(src, node, classScope, models.SymbolKindField)
	case nodePropertyDecl:
		w.visitFieldLike(src, node, classScope, models.SymbolKindProperty)
	}
}

func (w *Walker) visitMethod(src []byte, node walker.ParseTree, classScope *models.Symbol, isCtor bool) {
	d := w.decls.push()
	defer w.decls.pop()

	w.scanModifiersAndAnnotations(src, node, d)
	name := childIdentifierText(src, node)
	if name == "" || !w.Visibility.emits(effectiveVisibility(d.modifiers)) {
		return
	}

	params := extractParameters(src, node)
	kind := models.SymbolKindMethod
	if isCtor {
		kind = models.SymbolKindConstructor
	}

	sym := models.Symbol{
		Name: name, Kind: kind, Location: nodeLocation(node),
		DetailLevel: w.Visibility.DetailLevel, Modifiers: d.modifiers,
		Parameters: params, ReturnType: extractReturnType(src, node),
	}
	stored := w.Table.AddSymbol(sym, classScope)

	if !w.Visibility.EmitLocals {
		return
	}
	methodScope := w.Table.EnterScope(stored.Name, models.ScopeTypeMethod, stored.Location, w.Table.FileURI(), &stored)
	for _, p := range params {
		w.Table.AddSymbol(models.Symbol{
			Name: p.Name, Kind: models.SymbolKindParameter, Type: p.Type,
			Location: stored.Location, DetailLevel: w.Visibility.DetailLevel,
		}, &methodScope)
	}

	prevDecl := w.currentDeclID
	w.currentDeclID = stored.ID
	if body := ChildByTypeHelper(node, nodeBlock); body != nil {
		w.visitStatements(src, body, &methodScope)
	}
	w.currentDeclID = prevDecl
}

func (w *Walker) visitFieldLike(src []byte, node walker.ParseTree, classScope *models.Symbol, kind models.SymbolKind) {
	d := w.decls.push()
	defer w.decls.pop()

	w.scanModifiersAndAnnotations(src, node, d)
	if !w.Visibility.emits(effectiveVisibility(d.modifiers)) {
		return
	}
	if conflictingModifiers(d.modifiers) {
		name := childIdentifierText(src, node)
		a, b := "final", "abstract"
		if !d.modifiers.Final || !d.modifiers.Abstract {
			a, b = "abstract", "virtual"
		}
		w.Errors.Report(diagcode.ConflictingModifiers(nodeLocation(node).IdentifierRange, name, a, b))
	}

	typ := firstTypeIdentifier(src, node)
	for i := 0; i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c.Type() != nodeVarDeclarator {
			continue
		}
		name := childIdentifierText(src, c)
		if name == "" {
			continue
		}
		if d.seenNames[lowerName(name)] {
			w.Errors.Report(diagcode.DuplicateVariable(nodeLocation(c).IdentifierRange, name))
			continue
		}
		d.seenNames[lowerName(name)] = true
		w.Table.AddSymbol(models.Symbol{
			Name: name, Kind: kind, Type: typ, Location: nodeLocation(c),
			DetailLevel: w.Visibility.DetailLevel, Modifiers: d.modifiers,
		}, classScope)
	}
}

// visitStatements is only reached by the full listener (spec §4.2: only
// `full` emits local variables and block bodies).
func (w *Walker) visitStatements(src []byte, block walker.ParseTree, scope *models.Symbol) {
	for i := 0; i < block.ChildCount(); i++ {
		w.visitStatement(src, block.Child(i), scope)
	}
}

func (w *Walker) visitStatement(src []byte, node walker.ParseTree, scope *models.Symbol) {
	if node == nil {
		return
	}
	switch node.Type() {
	case nodeLocalVarDecl:
		w.visitLocalVar(src, node, scope)
	case nodeBlock:
		inner := w.Table.EnterScope("", models.ScopeTypeBlock, nodeLocation(node), w.Table.FileURI(), scope)
		w.visitStatements(src, node, &inner)
	case nodeIfStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeIf)
	case nodeWhileStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeWhile)
	case nodeDoStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeDoWhile)
	case nodeForStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeFor)
	case nodeTryStmt:
		w.visitTry(src, node, scope)
	case nodeSwitchStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeSwitch)
	case nodeRunAsStmt:
		w.visitCompound(src, node, scope, models.ScopeTypeRunAs)
	case nodeAssignment:
		w.emitAssignmentRefs(src, node, false)
	case nodeCompoundAssign:
		w.emitAssignmentRefs(src, node, true)
	default:
		// Unrecognized statement kinds (expression statements, returns,
		// etc.) still get their sub-expressions scanned for references.
		w.scanExpressionChildren(src, node)
	}
}

// visitCompound handles if/while/do/for/switch/runAs: it creates one scope
// of scopeType wrapping the construct, then a nested block scope for its
// body, matching scenario S2's `if -> block -> while -> block` chain.
func (w *Walker) visitCompound(src []byte, node walker.ParseTree, scope *models.Symbol, scopeType models.ScopeType) {
	w.scanConditionExpression(src, node)
	compound := w.Table.EnterScope("", scopeType, nodeLocation(node), w.Table.FileURI(), scope)
	if body := ChildByTypeHelper(node, nodeBlock); body != nil {
		inner := w.Table.EnterScope("", models.ScopeTypeBlock, nodeLocation(body), w.Table.FileURI(), &compound)
		w.visitStatements(src, body, &inner)
	}
	// A nested if_statement child (an else-if) is walked inside the compound
	// scope; any further block child (a plain else body) gets its own block
	// scope under the compound scope, the same way as the primary body.
	primarySeen := false
	for i := 0; i < node.ChildCount(); i++ {
		c := node.Child(i)
		switch c.Type() {
		case nodeBlock:
			if !primarySeen {
				primarySeen = true
				continue // already handled above as the primary body
			}
			inner := w.Table.EnterScope("", models.ScopeTypeBlock, nodeLocation(c), w.Table.FileURI(), &compound)
			w.visitStatements(src, c, &inner)
		case nodeIfStmt:
			w.visitStatement(src, c, &compound)
		}
	}
}

func (w *Walker) visitTry(src []byte, node walker.ParseTree, scope *models.Symbol) {
	tryScope := w.Table.EnterScope("", models.ScopeTypeTry, nodeLocation(node), w.Table.FileURI(), scope)
	if body := ChildByTypeHelper(node, nodeBlock); body != nil {
		inner := w.Table.EnterScope("", models.ScopeTypeBlock, nodeLocation(body), w.Table.FileURI(), &tryScope)
		w.visitStatements(src, body, &inner)
	}
	for i := 0; i < node.ChildCount(); i++ {
		c := node.Child(i)
		switch c.Type() {
		case nodeCatchClause:
			catchScope := w.Table.EnterScope("", models.ScopeTypeCatch, nodeLocation(c), w.Table.FileURI(), &tryScope)
			if body := ChildByTypeHelper(c, nodeBlock); body != nil {
				w.visitStatements(src, body, &catchScope)
			}
		case nodeFinally:
			finallyScope := w.Table.EnterScope("", models.ScopeTypeFinally, nodeLocation(c), w.Table.FileURI(), &tryScope)
			if body := ChildByTypeHelper(c, nodeBlock); body != nil {
				w.visitStatements(src, body, &finallyScope)
			}
		}
	}
}

func (w *Walker) visitLocalVar(src []byte, node walker.ParseTree, scope *models.Symbol) {
	d := newDeclState()
	typ := firstTypeIdentifier(src, node)
	for i := 0; i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c.Type() != nodeVarDeclarator {
			continue
		}
		name := childIdentifierText(src, c)
		if name == "" {
			continue
		}
		if d.seenNames[lowerName(name)] {
			w.Errors.Report(diagcode.DuplicateVariable(nodeLocation(c).IdentifierRange, name))
			continue
		}
		d.seenNames[lowerName(name)] = true
		stored := w.Table.AddSymbol(models.Symbol{
			Name: name, Kind: models.SymbolKindVariable, Type: typ,
			Location: nodeLocation(c), DetailLevel: w.Visibility.DetailLevel,
		}, scope)
		w.record(models.Reference{
			Name: name, Location: nodeLocation(c), Context: models.ContextVariableDeclaration,
			SourceSymbolID: stored.ID,
		})
	}
}

// scanConditionExpression and scanExpressionChildren are conservative:
// rather than fully parsing every Apex expression grammar production, they
// recurse through children looking for the reference-bearing shapes spec
// §4.3 names explicitly, skipping anything else.
func (w *Walker) scanConditionExpression(src []byte, node walker.ParseTree) {
	for i := 0; i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c.Type() == nodeBlock {
			continue
		}
		w.scanExpressionChildren(src, c)
	}
}

func (w *Walker) scanExpressionChildren(src []byte, node walker.ParseTree) {
	if node == nil {
		return
	}
	switch node.Type() {
	case nodeAssignment:
		w.emitAssignmentRefs(src, node, false)
		return
	case nodeCompoundAssign:
		w.emitAssignmentRefs(src, node, true)
		return
	case nodeMethodInvocation:
		w.emitMethodInvocationRefs(src, node)
		return
	case nodeScopedTypeName:
		w.emitChainedTypeRef(src, node)
		return
	case nodeIntLiteral, nodeLongLiteral, nodeDecimalLiteral, nodeStringLiteral, nodeBoolLiteral, nodeNullLiteral:
		w.record(ClassifyLiteral(literalKindFor(node.Type()), node.Content(src), nodeLocation(node)))
		return
	}
	for i := 0; i < node.ChildCount(); i++ {
		w.scanExpressionChildren(src, node.Child(i))
	}
}

func (w *Walker) emitAssignmentRefs(src []byte, node walker.ParseTree, compound bool) {
	lhs := node.Child(0)
	if lhs == nil {
		return
	}
	var rhsNode walker.ParseTree
	if node.ChildCount() > 1 {
		rhsNode = node.Child(node.ChildCount() - 1)
	}
	rhsName, rhsLoc := "", nodeLocation(node)
	if rhsNode != nil {
		rhsName, rhsLoc = rhsNode.Content(src), nodeLocation(rhsNode)
	}

	if lhs.Type() == nodeFieldAccess {
		obj, field := splitFieldAccess(lhs)
		if obj != nil && field != nil {
			for _, ref := range ClassifyFieldAccessAssignment(obj.Content(src), nodeLocation(obj), field.Content(src), nodeLocation(field), rhsName, rhsLoc) {
				w.record(ref)
			}
			return
		}
	}
	if lhs.Type() == nodeArrayAccess {
		arr, idx := splitArrayAccess(lhs)
		if arr != nil && idx != nil {
			for _, ref := range ClassifyArrayAccessAssignment(arr.Content(src), nodeLocation(arr), idx.Content(src), nodeLocation(idx), rhsName, rhsLoc) {
				w.record(ref)
			}
			return
		}
	}

	lhsName, lhsLoc := lhs.Content(src), nodeLocation(lhs)
	var refs []models.Reference
	if compound {
		refs = ClassifyCompoundAssignment(lhsName, lhsLoc, rhsName, rhsLoc)
	} else {
		refs = ClassifySimpleAssignment(lhsName, lhsLoc, rhsName, rhsLoc)
	}
	for _, ref := range refs {
		w.record(ref)
	}
}

func (w *Walker) emitMethodInvocationRefs(src []byte, node walker.ParseTree) {
	qualifier := ChildByTypeHelper(node, nodeFieldAccess, nodeIdentifier)
	if qualifier == nil || qualifier.Type() != nodeFieldAccess {
		return
	}
	obj, method := splitFieldAccess(qualifier)
	if obj == nil || method == nil {
		return
	}
	for _, ref := range ClassifyQualifiedCall(obj.Content(src), nodeLocation(obj), method.Content(src), nodeLocation(method), w.isKnownType) {
		w.record(ref)
	}
}

func (w *Walker) emitChainedTypeRef(src []byte, node walker.ParseTree) {
	var segs []models.ChainNode
	collectScopedSegments(src, node, &segs)
	w.recordHierarchical(ClassifyChainedType(segs, nodeLocation(node)))
}

func collectScopedSegments(src []byte, node walker.ParseTree, out *[]models.ChainNode) {
	if node == nil {
		return
	}
	if node.Type() == nodeScopedTypeName {
		for i := 0; i < node.ChildCount(); i++ {
			collectScopedSegments(src, node.Child(i), out)
		}
		return
	}
	*out = append(*out, models.ChainNode{Name: node.Content(src), Location: nodeLocation(node), Context: models.ContextChainStep})
}

func literalKindFor(nodeType string) models.LiteralType {
	switch nodeType {
	case nodeIntLiteral:
		return models.LiteralInteger
	case nodeLongLiteral:
		return models.LiteralLong
	case nodeDecimalLiteral:
		return models.LiteralDecimal
	case nodeStringLiteral:
		return models.LiteralString
	case nodeBoolLiteral:
		return models.LiteralBoolean
	default:
		return models.LiteralNull
	}
}
