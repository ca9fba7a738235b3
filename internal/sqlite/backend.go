package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// dbFileName is the database file created inside DataDir.
const dbFileName = "arbor.db"

// Backend implements types.Store over a SQLite database file. The record
// surface it hands out owns all query text; callers never see SQL.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	records  *Records
	log      zerolog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the structured logger for backend lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens (or creates) the database under config.DataDir and applies
// the schema. Existing data is kept. Returns ErrAlreadyAttached if called
// while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return err
		}
	}

	b.db = db
	b.config = config
	b.records = &Records{backend: b}
	b.attached = true
	b.log.Debug().Str("path", dbPath).Msg("sqlite backend attached")
	return nil
}

// Detach closes the database. Idempotent; after Detach, operations return
// ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.records = nil
	b.log.Debug().Msg("sqlite backend detached")
	return nil
}

// Records returns the RecordStore surface.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Records() (types.RecordStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.records, nil
}
