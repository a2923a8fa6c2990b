package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the language server's process-wide configuration, assembled
// from the environment (and an optional .env file) at startup.
type Config struct {
	Server  ServerConfig
	Neo4j   Neo4jConfig
	Valkey  ValkeyConfig
	Indexer IndexerConfig
}

// ServerConfig configures the debug/introspection HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Neo4jConfig points at the optional durable graph mirror. URI is left
// empty when no mirror is configured, in which case the symbol graph runs
// in-memory only.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

// Enabled reports whether a mirror target was configured.
func (n Neo4jConfig) Enabled() bool { return n.URI != "" }

// ValkeyConfig points at the optional document-state cache backend. Addr is
// left empty when no cache is configured, in which case the document cache
// runs in-process only.
type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a cache backend was configured.
func (v ValkeyConfig) Enabled() bool { return v.Addr != "" }

// IndexerConfig tunes the symbol indexing pipeline.
type IndexerConfig struct {
	MaxConcurrentFiles int
	DiagnosticDebounce time.Duration

	// CachePollInterval/CachePollAttempts bound the orchestrator's wait for
	// a concurrent didOpen to land in the document state cache before it
	// falls back to a fresh compile (spec §4.6 step 3).
	CachePollInterval time.Duration
	CachePollAttempts int

	// HighImpactThreshold is the AnalyzeDependencies impact score at or
	// above which a symbol earns a HIGH_IMPACT_SYMBOL diagnostic (spec §4.6
	// step 9).
	HighImpactThreshold float64

	// EnableReferenceCorrection permits rewriting VARIABLE_USAGE qualifiers
	// to CLASS_REFERENCE once the type becomes resolvable (spec §6).
	EnableReferenceCorrection bool
}

// Load reads configuration from the environment, first loading a .env file
// from the working directory if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env") // ignore error if .env missing

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "127.0.0.1"),
			Port:         getEnvInt("SERVER_PORT", 8091),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", ""),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		Indexer: IndexerConfig{
			MaxConcurrentFiles:        getEnvInt("INDEXER_MAX_CONCURRENT_FILES", 8),
			DiagnosticDebounce:        time.Duration(getEnvInt("INDEXER_DIAGNOSTIC_DEBOUNCE_MS", 300)) * time.Millisecond,
			CachePollInterval:         time.Duration(getEnvInt("INDEXER_CACHE_POLL_INTERVAL_MS", 50)) * time.Millisecond,
			CachePollAttempts:         getEnvInt("INDEXER_CACHE_POLL_ATTEMPTS", 10),
			HighImpactThreshold:       getEnvFloat("INDEXER_HIGH_IMPACT_THRESHOLD", 0.5),
			EnableReferenceCorrection: getEnvBool("INDEXER_ENABLE_REFERENCE_CORRECTION", true),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
