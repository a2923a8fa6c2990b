// Package graphmirror durably mirrors the in-memory symbolgraph.Graph into
// Neo4j, for workspaces large enough that cross-session warm start beats a
// full re-index. The in-memory graph remains the source of truth for every
// language-server operation; the mirror is write-behind and best-effort.
package graphmirror

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/forcedotcom/apexls-core/internal/config"
)

// Client wraps the Neo4j driver used to mirror the symbol graph.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClient creates a Neo4j client from configuration. Callers should check
// cfg.Enabled() first; NewClient does not fail just because the mirror is
// unconfigured, but an empty URI will not connect to anything real.
func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// Close releases the Neo4j driver's resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity to Neo4j.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}
