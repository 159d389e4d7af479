package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/snipsync/internal/model"
	"github.com/klauern/snipsync/internal/util"
)

// clearEnv makes sure the developer's own environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeySublimePath, KeyRStudioPath, KeyBackupPath, KeyBackupKeep, KeyScopeMap, EnvConfigFile} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "config.env")
	util.WriteFile(t, path, `# snippet locations
SUBLIME_SNIPPETS_PATH="/opt/sublime/User/snippets"
RSTUDIO_SNIPPETS_PATH=rstudio
SNIPSYNC_BACKUP_KEEP=5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/opt/sublime/User/snippets", cfg.SublimePath)
	assert.Equal(t, filepath.Join(dir, "rstudio"), cfg.RStudioPath, "relative paths resolve next to the config file")
	assert.Equal(t, filepath.Join(dir, "backups"), cfg.BackupPath)
	assert.Equal(t, 5, cfg.BackupKeep)
	assert.Equal(t, model.DefaultScopeMap(), cfg.Scopes)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content string
		check   func(t *testing.T, err error)
	}{
		"missing sublime path": {
			content: "RSTUDIO_SNIPPETS_PATH=/r\n",
			check: func(t *testing.T, err error) {
				var missing *MissingKeyError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, KeySublimePath, missing.Key)
			},
		},
		"missing rstudio path": {
			content: "SUBLIME_SNIPPETS_PATH=/s\nRSTUDIO_SNIPPETS_PATH=\n",
			check: func(t *testing.T, err error) {
				var missing *MissingKeyError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, KeyRStudioPath, missing.Key)
			},
		},
		"bad backup keep": {
			content: "SUBLIME_SNIPPETS_PATH=/s\nRSTUDIO_SNIPPETS_PATH=/r\nSNIPSYNC_BACKUP_KEEP=many\n",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, KeyBackupKeep)
			},
		},
		"unsupported scope map": {
			content: "SUBLIME_SNIPPETS_PATH=/s\nRSTUDIO_SNIPPETS_PATH=/r\nSNIPSYNC_SCOPE_MAP=scopes.json\n",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unsupported scope map format")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(util.CreateTempDir(t), "config.env")
			util.WriteFile(t, path, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLoad_NoConfig(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(util.CreateTempDir(t), "missing.env"))
	assert.True(t, errors.Is(err, ErrNoConfig))
}

func TestLoad_DefaultPathFromEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(util.CreateTempDir(t), "custom.env")
	util.WriteFile(t, path, "SUBLIME_SNIPPETS_PATH=/s\nRSTUDIO_SNIPPETS_PATH=/r\n")
	t.Setenv(EnvConfigFile, path)

	assert.Equal(t, path, FilePath())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "config.env")
	util.WriteFile(t, path, "SUBLIME_SNIPPETS_PATH=/from/file\n")

	t.Setenv(KeyRStudioPath, "/from/env/rstudio")
	t.Setenv(KeySublimePath, "/from/env/sublime")
	t.Setenv(KeyBackupPath, "~/snip-backups")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env/sublime", cfg.SublimePath)
	assert.Equal(t, "/from/env/rstudio", cfg.RStudioPath)
	assert.Equal(t, filepath.Join(util.HomeDir(), "snip-backups"), cfg.BackupPath)
}

func TestLoadScopeMap(t *testing.T) {
	want := model.ScopeMap{
		{Scope: "source.go", Files: []string{"go.snippets"}},
		{Scope: "source.r", Files: []string{"r.snippets", "rmd.snippets"}},
	}

	tests := map[string]struct {
		file    string
		content string
	}{
		"yaml": {
			file: "scopes.yaml",
			content: `scopes:
  - scope: source.go
    files: [go.snippets]
  - scope: source.r
    files:
      - r.snippets
      - rmd.snippets
`,
		},
		"toml": {
			file: "scopes.toml",
			content: `[[scopes]]
scope = "source.go"
files = ["go.snippets"]

[[scopes]]
scope = "source.r"
files = ["r.snippets", "rmd.snippets"]
`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(util.CreateTempDir(t), tt.file)
			util.WriteFile(t, path, tt.content)

			got, err := LoadScopeMap(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadScopeMap_Invalid(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
		wantErr string
	}{
		"empty table":     {file: "s.yml", content: "scopes: []\n", wantErr: "defines no scopes"},
		"duplicate scope": {file: "s.yml", content: "scopes:\n  - {scope: a, files: [a.snippets]}\n  - {scope: a, files: [b.snippets]}\n", wantErr: "duplicate scope"},
		"broken yaml":     {file: "s.yaml", content: "scopes: [\n", wantErr: "failed to parse"},
		"broken toml":     {file: "s.toml", content: "[[scopes]\n", wantErr: "failed to parse"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(util.CreateTempDir(t), tt.file)
			util.WriteFile(t, path, tt.content)

			_, err := LoadScopeMap(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_WithScopeMap(t *testing.T) {
	clearEnv(t)
	dir := util.CreateTempDir(t)
	util.WriteFile(t, filepath.Join(dir, "scopes.yaml"), "scopes:\n  - scope: source.go\n    files: [go.snippets]\n")
	path := filepath.Join(dir, "config.env")
	util.WriteFile(t, path, "SUBLIME_SNIPPETS_PATH=/s\nRSTUDIO_SNIPPETS_PATH=/r\nSNIPSYNC_SCOPE_MAP=scopes.yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scopes.yaml"), cfg.ScopeMapPath)
	assert.Equal(t, []model.Pair{{Scope: "source.go", File: "go.snippets"}}, cfg.Scopes.Pairs())
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := util.CreateTempDir(t)
	cfg := &Config{
		SublimePath: "/opt/sublime snippets",
		RStudioPath: "/home/me/.config/rstudio/snippets",
		BackupPath:  "/var/backups/snipsync",
		BackupKeep:  3,
	}
	path := filepath.Join(dir, "nested", "config.env")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.SublimePath, loaded.SublimePath)
	assert.Equal(t, cfg.RStudioPath, loaded.RStudioPath)
	assert.Equal(t, cfg.BackupPath, loaded.BackupPath)
	assert.Equal(t, 3, loaded.BackupKeep)
}
