package docstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/forcedotcom/apexls-core/internal/config"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

const keyPrefix = "apexls:docstate:"

// wireEntry is the JSON-safe projection of Entry a ValkeyBackend can
// actually round-trip: ParseTree and SymbolTable never cross the wire
// (see Entry's doc comment).
type wireEntry struct {
	Diagnostics []wireDiagnostic `json:"diagnostics"`
	CompiledAt  int64            `json:"compiledAt"`
}

type wireDiagnostic struct {
	Range struct {
		StartLine, StartCol, EndLine, EndCol int
	} `json:"range"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
}

// ValkeyBackend persists the diagnostics slice of each cache entry to
// Valkey, grounded on the teacher's internal/store/valkey.NewClient
// connection idiom, for multi-process deployments where a second
// orchestrator instance should see a warm cache (spec §4.7).
type ValkeyBackend struct {
	client valkey.Client
}

// NewValkeyClient opens and pings a Valkey connection, mirroring the
// teacher's store/valkey.NewClient.
func NewValkeyClient(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{InitAddress: []string{cfg.Addr}}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.SelectDB = cfg.DB
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	ctx := context.Background()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return client, nil
}

// NewValkeyBackend wraps an already-connected client as a Backend.
func NewValkeyBackend(client valkey.Client) *ValkeyBackend {
	return &ValkeyBackend{client: client}
}

func redisKey(key Key) string {
	return keyPrefix + key.URI + ":" + strconv.Itoa(key.Version)
}

func (b *ValkeyBackend) Get(key Key) (Entry, bool) {
	ctx := context.Background()
	resp := b.client.Do(ctx, b.client.B().Get().Key(redisKey(key)).Build())
	if resp.Error() != nil {
		return Entry{}, false
	}
	raw, err := resp.ToString()
	if err != nil {
		return Entry{}, false
	}

	var w wireEntry
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Entry{}, false
	}
	return fromWire(w), true
}

func (b *ValkeyBackend) Put(key Key, entry Entry) {
	data, err := json.Marshal(toWire(entry))
	if err != nil {
		return
	}
	ctx := context.Background()
	_ = b.client.Do(ctx, b.client.B().Set().Key(redisKey(key)).Value(string(data)).Build()).Error()
}

func (b *ValkeyBackend) EvictOlderVersions(uri string, keepVersion int) {
	ctx := context.Background()
	resp := b.client.Do(ctx, b.client.B().Keys().Pattern(keyPrefix+uri+":*").Build())
	if resp.Error() != nil {
		return
	}
	keys, err := resp.AsStrSlice()
	if err != nil {
		return
	}
	for _, k := range keys {
		version, ok := versionFromRedisKey(k, uri)
		if !ok || version >= keepVersion {
			continue
		}
		_ = b.client.Do(ctx, b.client.B().Del().Key(k).Build()).Error()
	}
}

func versionFromRedisKey(k, uri string) (int, bool) {
	suffix := strings.TrimPrefix(k, keyPrefix+uri+":")
	if suffix == k {
		return 0, false
	}
	v, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return v, true
}

func toWire(e Entry) wireEntry {
	w := wireEntry{CompiledAt: e.CompiledAt}
	for _, d := range e.Diagnostics {
		wd := wireDiagnostic{
			Message: d.Message, Severity: int(d.Severity), Code: d.Code, Source: d.Source,
		}
		wd.Range.StartLine, wd.Range.StartCol = d.Range.Start.Line, d.Range.Start.Column
		wd.Range.EndLine, wd.Range.EndCol = d.Range.End.Line, d.Range.End.Column
		w.Diagnostics = append(w.Diagnostics, wd)
	}
	return w
}

func fromWire(w wireEntry) Entry {
	e := Entry{CompiledAt: w.CompiledAt}
	for _, wd := range w.Diagnostics {
		e.Diagnostics = append(e.Diagnostics, diagnosticFromWire(wd))
	}
	return e
}

func diagnosticFromWire(wd wireDiagnostic) models.Diagnostic {
	return models.Diagnostic{
		Range: models.Range{
			Start: models.Position{Line: wd.Range.StartLine, Column: wd.Range.StartCol},
			End:   models.Position{Line: wd.Range.EndLine, Column: wd.Range.EndCol},
		},
		Message:  wd.Message,
		Severity: models.Severity(wd.Severity),
		Code:     wd.Code,
		Source:   wd.Source,
	}
}
