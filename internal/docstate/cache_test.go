package docstate

import (
	"testing"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

func TestCacheGetMiss(t *testing.T) {
	c := New(NewMemoryBackend())
	if _, ok := c.Get("file:///A.cls", 1); ok {
		t.Fatalf("expected miss on empty cache")
	}
}

func TestCachePutThenGetHits(t *testing.T) {
	c := New(NewMemoryBackend())
	entry := Entry{Diagnostics: []models.Diagnostic{{Message: "boom"}}, CompiledAt: 100}
	c.Put("file:///A.cls", 2, entry)

	got, ok := c.Get("file:///A.cls", 2)
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Message != "boom" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestCachePutEvictsOlderVersions(t *testing.T) {
	c := New(NewMemoryBackend())
	c.Put("file:///A.cls", 1, Entry{CompiledAt: 1})
	c.Put("file:///A.cls", 2, Entry{CompiledAt: 2})
	c.Put("file:///A.cls", 3, Entry{CompiledAt: 3})

	if _, ok := c.Get("file:///A.cls", 1); ok {
		t.Fatalf("version 1 should have been evicted on write of version 3")
	}
	if _, ok := c.Get("file:///A.cls", 2); ok {
		t.Fatalf("version 2 should have been evicted on write of version 3")
	}
	if _, ok := c.Get("file:///A.cls", 3); !ok {
		t.Fatalf("version 3 should remain cached")
	}
}

func TestCacheDistinctURIsDoNotCollide(t *testing.T) {
	c := New(NewMemoryBackend())
	c.Put("file:///A.cls", 1, Entry{CompiledAt: 1})
	c.Put("file:///B.cls", 1, Entry{CompiledAt: 2})

	if _, ok := c.Get("file:///A.cls", 1); !ok {
		t.Fatalf("A.cls version 1 should still be cached after B.cls write")
	}
}
