package symbolgraph

import (
	"strings"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

// pendingRef is a reference whose target name did not resolve to any known
// symbol at the time it was captured. It is keyed by the lowercased target
// name in Graph.deferred and retried every time a new symbol is added
// (spec §4.4: "the deferred queue is drained: any pending reference whose
// target name now exists is materialized as an edge").
type pendingRef struct {
	SourceID   string
	TargetName string
	Type       models.ReferenceContext
	Context    string
}

// enqueueDeferred records a reference that could not be resolved yet.
func (g *Graph) enqueueDeferred(sourceID, targetName string, typ models.ReferenceContext, context string) {
	key := lowerKey(targetName)
	g.deferred[key] = append(g.deferred[key], pendingRef{
		SourceID: sourceID, TargetName: targetName, Type: typ, Context: context,
	})
}

// drainDeferredFor materializes every pending reference waiting on
// targetID's name or FQN, now that targetID has been registered.
func (g *Graph) drainDeferredFor(targetID string, sym models.Symbol) {
	for _, key := range []string{lowerKey(sym.Name), lowerKey(sym.FQN)} {
		pending := g.deferred[key]
		if len(pending) == 0 {
			continue
		}
		delete(g.deferred, key)
		for _, p := range pending {
			g.addEdgeLocked(p.SourceID, targetID, p.Type, p.Context, p.TargetName)
		}
	}
}

func lowerKey(s string) string { return strings.ToLower(s) }

// DeferredTargets reports how many pending references are waiting on each
// lowercased target name, for the debug server's /deferred endpoint.
func (g *Graph) DeferredTargets() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]int, len(g.deferred))
	for key, pending := range g.deferred {
		out[key] = len(pending)
	}
	return out
}
