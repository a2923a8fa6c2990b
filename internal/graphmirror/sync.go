package graphmirror

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

const batchSize = 500

// Sync pushes every symbol and edge currently held by g into Neo4j,
// batched at batchSize per MERGE statement. It is idempotent: re-running it
// against an unchanged graph only refreshes node/edge properties.
func (c *Client) Sync(ctx context.Context, g *symbolgraph.Graph) error {
	if err := c.syncSymbols(ctx, g.AllSymbols()); err != nil {
		return err
	}
	return c.syncEdges(ctx, g.AllEdges())
}

func (c *Client) syncSymbols(ctx context.Context, symbols []models.Symbol) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(symbols); i += batchSize {
		end := min(i+batchSize, len(symbols))
		batch := symbols[i:end]

		params := make([]map[string]any, len(batch))
		for j, sym := range batch {
			params[j] = map[string]any{
				"id":          sym.ID,
				"name":        sym.Name,
				"fqn":         sym.FQN,
				"kind":        string(sym.Kind),
				"fileUri":     sym.FileURI,
				"detailLevel": sym.DetailLevel.String(),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertSymbolNode, map[string]any{"symbols": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync symbols batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

func (c *Client) syncEdges(ctx context.Context, edges []symbolgraph.Edge) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		batch := edges[i:end]

		params := make([]map[string]any, len(batch))
		for j, e := range batch {
			params[j] = map[string]any{
				"sourceId": e.SourceID,
				"targetId": e.TargetID,
				"refType":  string(e.Type),
				"context":  e.Context,
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertEdge, map[string]any{"edges": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncFile re-mirrors a single file after it is recompiled: the file's
// previous symbols are deleted, then the graph's current symbols and edges
// for that file are re-pushed. Mirrors symbolgraph.Graph.RemoveFile's
// delete-then-readd lifecycle.
func (c *Client) SyncFile(ctx context.Context, g *symbolgraph.Graph, fileURI string) error {
	session := c.session(ctx)
	defer func() { _ = session.Close(ctx) }()

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteFileSymbols, map[string]any{"fileUri": fileURI})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("delete file symbols: %w", err)
	}

	if err := c.syncSymbols(ctx, g.GetSymbolsInFile(fileURI)); err != nil {
		return err
	}

	var edges []symbolgraph.Edge
	for _, sym := range g.GetSymbolsInFile(fileURI) {
		edges = append(edges, g.FindReferencesFrom(sym.ID)...)
	}
	return c.syncEdges(ctx, edges)
}

// EnsureConstraints creates the uniqueness constraint the mirror relies on
// for MERGE to stay idempotent. Call once at startup.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, CreateConstraintSymbolID, nil)
		return struct{}{}, err
	})
	return err
}
