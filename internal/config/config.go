// Package config loads the snipsync configuration from a dotenv file,
// environment variables and an optional scope table.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/parser"
	"github.com/klauern/snipsync/internal/util"
)

// Configuration keys
const (
	KeySublimePath = "SUBLIME_SNIPPETS_PATH"
	KeyRStudioPath = "RSTUDIO_SNIPPETS_PATH"
	KeyBackupPath  = "SNIPSYNC_BACKUP_PATH"
	KeyBackupKeep  = "SNIPSYNC_BACKUP_KEEP"
	KeyScopeMap    = "SNIPSYNC_SCOPE_MAP"

	// EnvConfigFile overrides the default config file location.
	EnvConfigFile = "SNIPSYNC_CONFIG"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "config.env"

// DefaultBackupKeep is how many snapshots per editor are kept by default.
const DefaultBackupKeep = 20

// ErrNoConfig is returned when the config file does not exist.
var ErrNoConfig = errors.New("config file not found")

// MissingKeyError reports a required key that is absent or empty.
type MissingKeyError struct {
	Key  string
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: required key %s is not set", e.Path, e.Key)
}

// Config is the resolved snipsync configuration.
type Config struct {
	// Path is the config file the values were read from
	Path string
	// SublimePath is the Sublime Text snippets directory
	SublimePath string
	// RStudioPath is the RStudio snippets directory
	RStudioPath string
	// BackupPath is where snapshots and file copies go
	BackupPath string
	// BackupKeep is the number of snapshots kept per editor (0 keeps all)
	BackupKeep int
	// ScopeMapPath is the optional scope table file; empty uses the built-in table
	ScopeMapPath string
	// Scopes maps Sublime Text scopes to RStudio snippet files
	Scopes model.ScopeMap
}

// FilePath returns the config file to use when none is given explicitly.
func FilePath() string {
	if v := os.Getenv(EnvConfigFile); v != "" {
		return v
	}
	return DefaultFileName
}

// Load reads the dotenv file at path, applies environment overrides and
// resolves paths relative to the file's directory. An empty path uses FilePath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}
	path = util.ExpandPath(path, "")

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return fromValues(path, values)
}

func fromValues(path string, values map[string]string) (*Config, error) {
	applyEnvironment(values)

	baseDir := filepath.Dir(path)
	cfg := &Config{
		Path:         path,
		SublimePath:  util.ExpandPath(values[KeySublimePath], baseDir),
		RStudioPath:  util.ExpandPath(values[KeyRStudioPath], baseDir),
		BackupPath:   util.ExpandPath(values[KeyBackupPath], baseDir),
		BackupKeep:   DefaultBackupKeep,
		ScopeMapPath: util.ExpandPath(values[KeyScopeMap], baseDir),
		Scopes:       model.DefaultScopeMap(),
	}

	if cfg.SublimePath == "" {
		return nil, &MissingKeyError{Key: KeySublimePath, Path: path}
	}
	if cfg.RStudioPath == "" {
		return nil, &MissingKeyError{Key: KeyRStudioPath, Path: path}
	}
	if cfg.BackupPath == "" {
		cfg.BackupPath = util.BackupsPath(path)
	}

	if v := strings.TrimSpace(values[KeyBackupKeep]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: %s must be a non-negative integer, got %q", path, KeyBackupKeep, v)
		}
		cfg.BackupKeep = n
	}

	if cfg.ScopeMapPath != "" {
		scopes, err := LoadScopeMap(cfg.ScopeMapPath)
		if err != nil {
			return nil, err
		}
		cfg.Scopes = scopes
	}
	return cfg, nil
}

// applyEnvironment lets process environment variables override file values.
func applyEnvironment(values map[string]string) {
	for _, key := range []string{KeySublimePath, KeyRStudioPath, KeyBackupPath, KeyBackupKeep, KeyScopeMap} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			values[key] = v
		}
	}
}

// scopeFile is the on-disk shape of a scope table.
type scopeFile struct {
	Scopes model.ScopeMap `yaml:"scopes" toml:"scopes"`
}

// LoadScopeMap reads a scope table from a .yaml/.yml or .toml file.
func LoadScopeMap(path string) (model.ScopeMap, error) {
	var file scopeFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		// #nosec G304 - path is provided by the user's configuration
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read scope map: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse scope map %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("failed to parse scope map %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scope map format %q (use .yaml, .yml or .toml)", ext)
	}

	if len(file.Scopes) == 0 {
		return nil, fmt.Errorf("scope map %s defines no scopes", path)
	}
	if err := file.Scopes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scope map %s: %w", path, err)
	}
	return file.Scopes, nil
}

// Values returns the configuration as dotenv key/value pairs.
func (c *Config) Values() map[string]string {
	values := map[string]string{
		KeySublimePath: c.SublimePath,
		KeyRStudioPath: c.RStudioPath,
		KeyBackupPath:  c.BackupPath,
		KeyBackupKeep:  strconv.Itoa(c.BackupKeep),
	}
	if c.ScopeMapPath != "" {
		values[KeyScopeMap] = c.ScopeMapPath
	}
	return values
}

// Save writes the configuration as a dotenv file.
func (c *Config) Save(path string) error {
	content, err := godotenv.Marshal(c.Values())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// #nosec G306 - config file should be readable by user
	return parser.WriteFileAtomic(path, []byte(content+"\n"), 0o644)
}
