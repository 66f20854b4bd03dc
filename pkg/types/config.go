package types

import "errors"

// Config holds backend selection and parameters for TreeEngine.Attach.
type Config struct {
	Backend      string        `json:"backend" yaml:"backend"`
	DataDir      string        `json:"data_dir" yaml:"data_dir"`
	SQLiteConfig *SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// SQLiteConfig tunes the SQLite backend. Zero values select defaults.
type SQLiteConfig struct {
	BusyTimeoutMS int    `json:"busy_timeout_ms,omitempty" yaml:"busy_timeout_ms,omitempty" mapstructure:"busy_timeout_ms"`
	MaxRetries    int    `json:"max_retries,omitempty" yaml:"max_retries,omitempty" mapstructure:"max_retries"`
	JournalMode   string `json:"journal_mode,omitempty" yaml:"journal_mode,omitempty" mapstructure:"journal_mode"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// SQLite defaults.
const (
	DefaultBusyTimeoutMS = 5000
	DefaultMaxRetries    = 3
	DefaultJournalMode   = "WAL"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrInvalidBusyTimeout = errors.New("busy timeout must not be negative")
	ErrInvalidRetries     = errors.New("max retries must not be negative")
	ErrJournalModeUnknown = errors.New("unknown journal mode")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownJournalModes lists the SQLite journal modes Validate accepts.
var knownJournalModes = map[string]bool{
	"WAL":      true,
	"DELETE":   true,
	"TRUNCATE": true,
	"PERSIST":  true,
	"MEMORY":   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.SQLiteConfig != nil {
		return c.SQLiteConfig.Validate()
	}
	return nil
}

// Validate checks the SQLite parameters.
func (s *SQLiteConfig) Validate() error {
	if s.BusyTimeoutMS < 0 {
		return ErrInvalidBusyTimeout
	}
	if s.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if s.JournalMode != "" && !knownJournalModes[s.JournalMode] {
		return ErrJournalModeUnknown
	}
	return nil
}

// GetBusyTimeoutMS returns the busy timeout, applying the default.
// Safe on a nil receiver.
func (s *SQLiteConfig) GetBusyTimeoutMS() int {
	if s == nil || s.BusyTimeoutMS == 0 {
		return DefaultBusyTimeoutMS
	}
	return s.BusyTimeoutMS
}

// GetMaxRetries returns the retry budget for transactions that lose a
// lock race, applying the default. Safe on a nil receiver.
func (s *SQLiteConfig) GetMaxRetries() int {
	if s == nil || s.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return s.MaxRetries
}

// GetJournalMode returns the journal mode, applying the default.
// Safe on a nil receiver.
func (s *SQLiteConfig) GetJournalMode() string {
	if s == nil || s.JournalMode == "" {
		return DefaultJournalMode
	}
	return s.JournalMode
}
