package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/navtree/internal/paths"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLogLevel = "log_level"
	cfgKeySQLite   = "sqlite"

	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml on first run.
type configFile struct {
	Backend  string             `yaml:"backend"`
	DataDir  string             `yaml:"data_dir,omitempty"`
	LogLevel string             `yaml:"log_level"`
	SQLite   types.SQLiteConfig `yaml:"sqlite"`
}

// settings is everything a command needs to open the engine.
type settings struct {
	configDir string
	engine    types.Config
	logLevel  string
}

// loadConfig reads config.yaml from configDir with viper, creating the
// directory and a default file first if they are missing.
// NAVTREE_LOG_LEVEL overrides log_level.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	// NAVTREE_DATA_DIR is resolved by paths after the config value.
	if err := v.BindEnv(cfgKeyLogLevel, "NAVTREE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:  types.BackendSQLite,
		LogLevel: defaultLogLevel,
		SQLite: types.SQLiteConfig{
			BusyTimeoutMS: types.DefaultBusyTimeoutMS,
			MaxRetries:    types.DefaultMaxRetries,
			JournalMode:   types.DefaultJournalMode,
		},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# navtree configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}

// resolve combines flags, config.yaml and the environment.
func (a *app) resolve() (*settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	var sc types.SQLiteConfig
	if err := v.UnmarshalKey(cfgKeySQLite, &sc); err != nil {
		return nil, fmt.Errorf("decode sqlite config: %w", err)
	}

	level := a.flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}

	return &settings{
		configDir: configDir,
		engine: types.Config{
			Backend:      v.GetString(cfgKeyBackend),
			DataDir:      dataDir,
			SQLiteConfig: &sc,
		},
		logLevel: level,
	}, nil
}
