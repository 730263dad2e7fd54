// Package datasource discovers, validates, and watches the entity stores the
// tool can load a snapshot from: a SQLite database file or an HTTP directory
// endpoint.
package datasource

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Dicklesworthstone/orgnet/pkg/config"
	"github.com/Dicklesworthstone/orgnet/pkg/loader"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

// SourceType identifies the kind of entity store behind a DataSource.
type SourceType string

const (
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeHTTP   SourceType = "http"
)

// Source priorities: an explicit local database wins over a live endpoint.
const (
	PrioritySQLite = 1
	PriorityHTTP   = 2
)

// defaultDBName is probed in the working directory when nothing is
// configured.
const defaultDBName = "orgnet.db"

// DataSource is one discovered entity store candidate.
type DataSource struct {
	Type     SourceType
	Path     string // file path or base URL
	Priority int
	ModTime  time.Time
	Valid    bool
	// PersonCount is filled during validation when requested.
	PersonCount int

	apiKey string
}

// Open returns an EntityStore for the source. SQLite handles must be closed
// by the caller.
func (s DataSource) Open() (store.EntityStore, func() error, error) {
	switch s.Type {
	case SourceTypeSQLite:
		db, err := store.OpenSQLite(s.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case SourceTypeHTTP:
		h := loader.NewHTTPStore(s.Path, s.apiKey, loader.ParseOptions{})
		return h, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source type %q", s.Type)
	}
}

// DiscoveryOptions steers source discovery. Explicit values beat environment
// variables.
type DiscoveryOptions struct {
	DBPath       string
	HTTPEndpoint string
	HTTPAPIKey   string
	Verbose      bool
	Logger       func(msg string)
}

// Discover returns candidate sources ordered by priority. Nothing is
// validated yet.
func Discover(opts DiscoveryOptions) []DataSource {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	var sources []DataSource
	sources = append(sources, discoverSQLite(opts)...)
	sources = append(sources, discoverHTTP(opts)...)

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})
	return sources
}

func discoverSQLite(opts DiscoveryOptions) []DataSource {
	path := opts.DBPath
	if path == "" {
		path = os.Getenv(config.EnvDB)
	}
	explicit := path != ""
	if path == "" {
		path = defaultDBName
	}

	info, err := os.Stat(path)
	if err != nil {
		if explicit && opts.Verbose {
			opts.Logger(fmt.Sprintf("Configured database not found: %s", path))
		}
		return nil
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found database: %s", path))
	}
	return []DataSource{{
		Type:     SourceTypeSQLite,
		Path:     path,
		Priority: PrioritySQLite,
		ModTime:  info.ModTime(),
	}}
}

func discoverHTTP(opts DiscoveryOptions) []DataSource {
	url := opts.HTTPEndpoint
	if url == "" {
		url = os.Getenv(config.EnvURL)
	}
	if url == "" {
		return nil
	}
	url = strings.TrimRight(url, "/")

	apiKey := opts.HTTPAPIKey
	if apiKey == "" {
		apiKey = os.Getenv(config.EnvAPIKey)
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Found HTTP source: %s", url))
	}
	return []DataSource{{
		Type:     SourceTypeHTTP,
		Path:     url,
		Priority: PriorityHTTP,
		ModTime:  time.Now(), // live sources are always current
		apiKey:   apiKey,
	}}
}

// ValidationOptions steers source validation.
type ValidationOptions struct {
	// CountPeople records the store's person count on the source.
	CountPeople bool
	Verbose     bool
	Logger      func(msg string)
	// Timeout bounds the validation round-trip. Default 10s.
	Timeout time.Duration
}

// Validate checks that a discovered source is actually usable and marks it
// Valid on success.
func Validate(source *DataSource, opts ValidationOptions) error {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	switch source.Type {
	case SourceTypeSQLite:
		db, err := store.OpenSQLite(source.Path)
		if err != nil {
			return fmt.Errorf("database unusable: %w", err)
		}
		defer db.Close()
		people, err := db.ListPeople(ctx)
		if err != nil {
			return fmt.Errorf("database unusable: %w", err)
		}
		if opts.CountPeople {
			source.PersonCount = len(people)
		}
	case SourceTypeHTTP:
		h := loader.NewHTTPStore(source.Path, source.apiKey, loader.ParseOptions{})
		count, err := h.Ping(ctx)
		if err != nil {
			return fmt.Errorf("endpoint unreachable: %w", err)
		}
		if opts.CountPeople {
			source.PersonCount = count
		}
		source.ModTime = time.Now()
	default:
		return fmt.Errorf("unknown source type %q", source.Type)
	}

	source.Valid = true
	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Validation passed: %s (%d people)", source.Path, source.PersonCount))
	}
	return nil
}
