package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full_config",
			yamlContent: `source_dirs:
  - /home/user/.config/bbsdial/sources
  - https://github.com/example/bbs-directory.git
cache_file: /home/user/.cache/bbsdial/catalog.yaml
max_cache_age: "24h"
refresh_timeout: "30s"`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{
					"/home/user/.config/bbsdial/sources",
					"https://github.com/example/bbs-directory.git",
				}, cfg.SourceDirs)
				assert.Equal(t, "/home/user/.cache/bbsdial/catalog.yaml", cfg.CacheFile)
				assert.Equal(t, 24*time.Hour, cfg.GetMaxCacheAge())
				assert.Equal(t, 30*time.Second, cfg.GetRefreshTimeout())
			},
		},
		{
			name: "minimal_config_gets_defaults",
			yamlContent: `source_dirs:
  - /data/sources`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"/data/sources"}, cfg.SourceDirs)
				assert.NotEmpty(t, cfg.CacheFile)
				assert.Zero(t, cfg.GetMaxCacheAge())
				assert.Equal(t, DefaultRefreshTimeout, cfg.GetRefreshTimeout())
			},
		},
		{
			name:        "invalid_yaml",
			yamlContent: `source_dirs: [invalid yaml`,
			wantErr:     true,
		},
		{
			name: "blank_source",
			yamlContent: `source_dirs:
  - "  "`,
			wantErr: true,
		},
		{
			name: "bad_max_cache_age",
			yamlContent: `source_dirs:
  - /data/sources
max_cache_age: "soon"`,
			wantErr: true,
		},
		{
			name: "bad_refresh_timeout",
			yamlContent: `source_dirs:
  - /data/sources
refresh_timeout: "whenever"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yamlContent), 0600))

			cfg, err := LoadConfig(WithConfigPath(path))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml")))
	require.NoError(t, err)

	require.Len(t, cfg.SourceDirs, 1)
	assert.Contains(t, cfg.SourceDirs[0], AppName)
	assert.Contains(t, cfg.CacheFile, AppName)
}

func TestWithConfigPathEmpty(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(WithConfigPath(""))
	require.Error(t, err)
}

func TestLoadConfigGitAuthValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
	}{
		{
			name: "valid_git_auth",
			yamlContent: `source_dirs:
  - https://github.com/example/bbs-directory.git
git_auth:
  username: bot
  password_env: BBSDIAL_GIT_TOKEN`,
		},
		{
			name: "missing_username",
			yamlContent: `source_dirs:
  - /data/sources
git_auth:
  password_env: BBSDIAL_GIT_TOKEN`,
			wantErr: true,
		},
		{
			name: "missing_password_env",
			yamlContent: `source_dirs:
  - /data/sources
git_auth:
  username: bot`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yamlContent), 0600))

			cfg, err := LoadConfig(WithConfigPath(path))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg.GitAuth)
			assert.Equal(t, "bot", cfg.GitAuth.Username)
		})
	}
}

func TestGitAuthGetPassword(t *testing.T) {
	t.Setenv("BBSDIAL_TEST_TOKEN", "hunter2")

	auth := &GitAuth{Username: "bot", PasswordEnv: "BBSDIAL_TEST_TOKEN"}
	password, err := auth.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)

	_, err = (&GitAuth{Username: "bot", PasswordEnv: "BBSDIAL_TEST_TOKEN_UNSET"}).GetPassword()
	require.Error(t, err)

	_, err = (&GitAuth{Username: "bot"}).GetPassword()
	require.Error(t, err)
}

func TestSourceKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   string
	}{
		{"/home/user/.config/bbsdial/sources", SourceKindDir},
		{"relative/dir", SourceKindDir},
		{"https://github.com/example/bbs-directory.git", SourceKindGit},
		{"http://internal.example.com/repo.git", SourceKindGit},
		{"git://example.com/repo.git", SourceKindGit},
		{"ssh://git@example.com/repo.git", SourceKindGit},
		{"git@github.com:example/repo.git", SourceKindGit},
		{"git@nothing", SourceKindDir},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceKind(tt.source), "source %q", tt.source)
	}
}
