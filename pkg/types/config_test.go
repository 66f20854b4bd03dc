package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name: "negative busy timeout rejected",
			config: Config{Backend: "sqlite", SQLiteConfig: &SQLiteConfig{
				BusyTimeoutMS: -1,
			}},
			wantErr: ErrInvalidBusyTimeout,
		},
		{
			name: "negative retries rejected",
			config: Config{Backend: "sqlite", SQLiteConfig: &SQLiteConfig{
				MaxRetries: -2,
			}},
			wantErr: ErrInvalidRetries,
		},
		{
			name: "unknown journal mode rejected",
			config: Config{Backend: "sqlite", SQLiteConfig: &SQLiteConfig{
				JournalMode: "OFFLINE",
			}},
			wantErr: ErrJournalModeUnknown,
		},
		{
			name: "explicit sqlite tuning accepted",
			config: Config{Backend: "sqlite", SQLiteConfig: &SQLiteConfig{
				BusyTimeoutMS: 100, MaxRetries: 1, JournalMode: "DELETE",
			}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSQLiteConfigDefaults(t *testing.T) {
	var nilCfg *SQLiteConfig
	assert.Equal(t, DefaultBusyTimeoutMS, nilCfg.GetBusyTimeoutMS())
	assert.Equal(t, DefaultMaxRetries, nilCfg.GetMaxRetries())
	assert.Equal(t, DefaultJournalMode, nilCfg.GetJournalMode())

	cfg := &SQLiteConfig{BusyTimeoutMS: 250, MaxRetries: 7, JournalMode: "MEMORY"}
	assert.Equal(t, 250, cfg.GetBusyTimeoutMS())
	assert.Equal(t, 7, cfg.GetMaxRetries())
	assert.Equal(t, "MEMORY", cfg.GetJournalMode())
}
