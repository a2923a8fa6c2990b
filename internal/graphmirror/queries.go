package graphmirror

// Cypher query constants for mirroring the symbol graph into Neo4j.
const (
	// CreateConstraintSymbolID ensures Symbol(id) is unique and indexed.
	CreateConstraintSymbolID = `CREATE CONSTRAINT apex_symbol_id IF NOT EXISTS FOR (s:ApexSymbol) REQUIRE s.id IS UNIQUE`

	// UpsertSymbolNode merges a symbol node by its id and sets all
	// properties from the current in-memory copy.
	UpsertSymbolNode = `
UNWIND $symbols AS sym
MERGE (s:ApexSymbol {id: sym.id})
SET s.name = sym.name,
    s.fqn = sym.fqn,
    s.kind = sym.kind,
    s.fileUri = sym.fileUri,
    s.detailLevel = sym.detailLevel
`

	// UpsertEdge merges a DEPENDS_ON relationship between two symbol ids.
	UpsertEdge = `
UNWIND $edges AS edge
MATCH (src:ApexSymbol {id: edge.sourceId})
MATCH (tgt:ApexSymbol {id: edge.targetId})
MERGE (src)-[r:DEPENDS_ON {refType: edge.refType}]->(tgt)
SET r.context = edge.context
`

	// DeleteFileSymbols removes every symbol (and incident relationships)
	// belonging to one file, ahead of resyncing its fresh symbol set.
	DeleteFileSymbols = `
MATCH (s:ApexSymbol {fileUri: $fileUri})
DETACH DELETE s
`
)
