package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var errClosed = errors.New("database not open")

// SQLiteBackend stores every object as one row of a SQLite database:
//
// Layer 1: In-memory B-tree for fast key → size lookups (keys map)
// Layer 2: SQLite object table (vfs_objects) holding content and stat
//
// Each write is a single transaction, so an object is either replaced
// completely or not at all. Directories are implicit and exist as long
// as an object below them exists.
type SQLiteBackend struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string

	// In-memory B-tree for fast key lookups
	keys *btree.Map[string, int64]

	maxObjectSize int64
}

// NewSQLiteBackend creates a new SQLite-backed object storage.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dbPath string, maxObjectSize int64) *SQLiteBackend {
	return &SQLiteBackend{
		dbPath:        dbPath,
		keys:          btree.NewMap[string, int64](0),
		maxObjectSize: maxObjectSize,
	}
}

// initSchema creates the database schema.
func (sb *SQLiteBackend) initSchema(ctx context.Context) error {
	schema := `
	-- Object storage
	CREATE TABLE IF NOT EXISTS vfs_objects (
		key TEXT PRIMARY KEY,
		content BLOB,
		size INTEGER NOT NULL CHECK(size >= 0),
		modify_time INTEGER NOT NULL
	);
	`

	_, err := sb.db.ExecContext(ctx, schema)
	return err
}

// Returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behavious and gets called when opening this backend.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(sb.dbPath), 0755); err != nil {
			return verrors.IO(err, "create database directory", sb.dbPath)
		}
	}

	db, err := sql.Open("sqlite", sb.dbPath)
	if err != nil {
		return verrors.IO(err, "open database", sb.dbPath)
	}
	// A single connection keeps ":memory:" databases alive between calls
	db.SetMaxOpenConns(1)

	// Enable WAL mode so a crash never leaves a torn write behind
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return verrors.IO(err, "configure database", sb.dbPath)
	}

	sb.db = db
	if err := sb.initSchema(ctx); err != nil {
		sb.closeUnsafe()
		return verrors.IO(err, "create schema", sb.dbPath)
	}

	if err := sb.loadKeysUnsafe(ctx); err != nil {
		sb.closeUnsafe()
		return verrors.IO(err, "load keys", sb.dbPath)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	return sb.closeUnsafe()
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityAtomicWrite,
			backend.CapabilityPersistent,
		},
		MaxObjectSize: sb.maxObjectSize,
	}
}
