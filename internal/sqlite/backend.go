// Package sqlite implements the navtree tree engine on SQLite.
//
// The engine keeps two relations, items and closure, and owns every write
// to them. Mutations run in one BEGIN IMMEDIATE transaction each so SQLite
// serializes writers; reads go through a separate query-only pool and see
// WAL snapshots.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// DatabaseFile is the name of the SQLite file inside the data directory.
const DatabaseFile = "navtree.db"

var _ types.TreeEngine = (*Backend)(nil)

// Backend implements types.TreeEngine on SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB // writer pool, transactions start with BEGIN IMMEDIATE
	rdb      *sql.DB // reader pool, query_only

	logger     *slog.Logger
	metrics    *metrics
	registerer prometheus.Registerer
	policy     types.DeletionPolicy
	maxRetries int
	retryDelay time.Duration

	// fault, when set, is called at named steps inside mutation
	// transactions. Tests use it to abort a transaction midway.
	fault func(step string) error
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithDeletionPolicy installs the predicate Delete consults before
// removing items. The default is types.AllowAll.
func WithDeletionPolicy(p types.DeletionPolicy) Option {
	return func(b *Backend) {
		if p != nil {
			b.policy = p
		}
	}
}

// WithMetrics registers the engine's mutation counters and latency
// histogram with reg. Without it the collectors are kept but not exported.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *Backend) {
		b.registerer = reg
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger:     slog.Default(),
		policy:     types.AllowAll,
		retryDelay: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.metrics = newMetrics(b.registerer)
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, applies the schema and seeds the
// root item. Returns ErrAlreadyAttached if already attached.
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
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	sc := config.SQLiteConfig

	db, err := sql.Open("sqlite", writerDSN(dbPath, sc))
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One writer connection; concurrent mutations queue on the pool.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("connecting to %s: %w", dbPath, err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return err
	}
	if err := seedRoot(db); err != nil {
		db.Close()
		return err
	}

	rdb, err := sql.Open("sqlite", readerDSN(dbPath, sc))
	if err != nil {
		db.Close()
		return fmt.Errorf("opening reader for %s: %w", dbPath, err)
	}

	b.db = db
	b.rdb = rdb
	b.config = config
	b.maxRetries = sc.GetMaxRetries()
	b.attached = true

	b.logger.Info("tree engine attached",
		"path", dbPath,
		"journal_mode", sc.GetJournalMode(),
		"busy_timeout_ms", sc.GetBusyTimeoutMS())
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrEngineDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	var firstErr error
	if err := b.rdb.Close(); err != nil {
		firstErr = fmt.Errorf("closing reader: %w", err)
	}
	if err := b.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing writer: %w", err)
	}
	b.db, b.rdb = nil, nil
	b.attached = false

	b.logger.Info("tree engine detached")
	return firstErr
}

// handles returns the writer and reader pools, or ErrEngineDetached.
// The lock only guards the lifecycle; tree operations run unlocked and
// rely on SQLite transactions.
func (b *Backend) handles() (*sql.DB, *sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, nil, types.ErrEngineDetached
	}
	return b.db, b.rdb, nil
}

// writerDSN builds the connection string for the writer pool. Every
// connection enables foreign keys, waits on locks for the busy timeout and
// opens transactions with BEGIN IMMEDIATE.
func writerDSN(path string, sc *types.SQLiteConfig) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)&_txlock=immediate",
		path, sc.GetBusyTimeoutMS(), sc.GetJournalMode())
}

// readerDSN builds the connection string for the reader pool.
func readerDSN(path string, sc *types.SQLiteConfig) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=query_only(1)",
		path, sc.GetBusyTimeoutMS())
}

// generateUUID generates a new UUID v7 for item IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
