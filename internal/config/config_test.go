package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// LoadFrom
// =============================================================================

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("ValidFullConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_full.yaml")
		require.NoError(t, err)

		assert.Equal(t, []string{"md", "json", "yaml"}, cfg.Types)
		assert.Equal(t, []string{"lessons/**"}, cfg.Scan.Include)
		assert.Len(t, cfg.Scan.Exclude, 2)
		assert.Equal(t, ParseConfig{FencePolicy: "skip", Concurrency: 4, Strict: true}, cfg.Parse)
		assert.Equal(t, RenderConfig{Renderer: "terminal", Width: 100, FontSize: "large"}, cfg.Render)
		assert.Equal(t, "yaml", cfg.Output.Format)
		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
		assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
		assert.Equal(t, "testdata/valid_full.yaml", cfg.Path)
	})

	t.Run("ValidPartialConfig", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid_partial.yaml")
		require.NoError(t, err)

		assert.Equal(t, []string{"md"}, cfg.Types)
		assert.Equal(t, "duplicate", cfg.Parse.FencePolicy)
		assert.Empty(t, cfg.Render.Renderer)
	})

	t.Run("TOML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/valid.toml")
		require.NoError(t, err)

		assert.Equal(t, []string{"md", "toml"}, cfg.Types)
		assert.Equal(t, []string{"drafts/**"}, cfg.Scan.Exclude)
		assert.Equal(t, "duplicate", cfg.Parse.FencePolicy)
		assert.Equal(t, 2, cfg.Parse.Concurrency)
		assert.Equal(t, "html", cfg.Render.Renderer)
		assert.Equal(t, ":8081", cfg.Server.Addr)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/empty.yaml")
		require.NoError(t, err)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/invalid.yaml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parsing testdata/invalid.yaml")
	})

	t.Run("InvalidValues", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/invalid_values.yaml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid config")
		assert.Contains(t, err.Error(), "parse")
	})

	t.Run("FileNotExists", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom("testdata/nonexistent.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.True(t, cfg.IsEmpty())
		assert.Empty(t, cfg.Path)
	})

	t.Run("DirectoryInsteadOfFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFrom(t.TempDir())
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestLoadFrom_ExpandsEnv(t *testing.T) {
	t.Setenv("LESSONBLOCKS_TEST_ADDR", "localhost:7000")

	cfg, err := LoadFrom("testdata/env.yaml")
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Server.Addr)
}

// =============================================================================
// Validate
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "Empty", cfg: Config{}},
		{name: "LegacyAlias", cfg: Config{Parse: ParseConfig{FencePolicy: "legacy"}}},
		{name: "BadFencePolicy", cfg: Config{Parse: ParseConfig{FencePolicy: "never"}}, wantErr: "parse"},
		{name: "NegativeConcurrency", cfg: Config{Parse: ParseConfig{Concurrency: -1}}, wantErr: "parse"},
		{name: "UnknownRenderer", cfg: Config{Render: RenderConfig{Renderer: "pdf"}}, wantErr: "render"},
		{name: "BadFontSize", cfg: Config{Render: RenderConfig{FontSize: "huge"}}, wantErr: "render"},
		{name: "NegativeWidth", cfg: Config{Render: RenderConfig{Width: -5}}, wantErr: "render"},
		{name: "BadOutputFormat", cfg: Config{Output: OutputConfig{Format: "csv"}}, wantErr: "output"},
		{name: "BadAddr", cfg: Config{Server: ServerConfig{Addr: "8080"}}, wantErr: "server"},
		{name: "BadLogLevel", cfg: Config{Log: LogConfig{Level: "trace"}}, wantErr: "log"},
		{name: "BadLogFormat", cfg: Config{Log: LogConfig{Format: "xml"}}, wantErr: "log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, (&LogConfig{}).SlogLevel())
	assert.Equal(t, slog.LevelDebug, (&LogConfig{Level: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&LogConfig{Level: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&LogConfig{Level: "error"}).SlogLevel())
}

// =============================================================================
// FindAndLoad / Resolve
// =============================================================================

func TestFindAndLoad(t *testing.T) {
	t.Parallel()

	t.Run("FindsInCurrentDir", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFileName)
		require.NoError(t, os.WriteFile(configPath, []byte("types: [json]\n"), 0o644))

		cfg, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"json"}, cfg.Types)
		assert.Equal(t, configPath, cfg.Path)
	})

	t.Run("FindsInParentDir", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		childDir := filepath.Join(tmpDir, "child")
		require.NoError(t, os.MkdirAll(childDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, DefaultConfigFileName), []byte("types: [md]\n"), 0o644))

		cfg, err := FindAndLoad(childDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"md"}, cfg.Types)
	})

	t.Run("FindsTOML", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, ".lessonrc.toml"), []byte("types = [\"txt\"]\n"), 0o644))

		cfg, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"txt"}, cfg.Types)
	})

	t.Run("YAMLBeforeTOML", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, DefaultConfigFileName), []byte("types: [yaml]\n"), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, ".lessonrc.toml"), []byte("types = [\"toml\"]\n"), 0o644))

		cfg, err := FindAndLoad(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"yaml"}, cfg.Types)
	})

	t.Run("NotFoundReturnsEmpty", func(t *testing.T) {
		t.Parallel()
		cfg, err := FindAndLoad(t.TempDir())
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.True(t, cfg.IsEmpty())
	})

	t.Run("CloserConfigTakesPrecedence", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		childDir := filepath.Join(tmpDir, "child")
		require.NoError(t, os.MkdirAll(childDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, DefaultConfigFileName), []byte("types: [md]\n"), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(childDir, DefaultConfigFileName), []byte("types: [json]\n"), 0o644))

		cfg, err := FindAndLoad(childDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"json"}, cfg.Types)
	})
}

func TestResolve(t *testing.T) {
	t.Run("UsesEnvPath", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "testdata/valid_partial.yaml")

		cfg, err := Resolve(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "duplicate", cfg.Parse.FencePolicy)
	})

	t.Run("MissingEnvPathIsError", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "testdata/nope.yaml")

		_, err := Resolve(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvConfigPath)
	})

	t.Run("FallsBackToSearch", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, DefaultConfigFileName), []byte("types: [lesson]\n"), 0o644))

		cfg, err := Resolve(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"lesson"}, cfg.Types)
	})
}

// =============================================================================
// IsEmpty / Merge
// =============================================================================

func TestConfig_IsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"Zero", Config{}, true},
		{"PathOnly", Config{Path: "x.yaml"}, true},
		{"Types", Config{Types: []string{"md"}}, false},
		{"ScanExclude", Config{Scan: ScanConfig{Exclude: []string{"x"}}}, false},
		{"ParseStrict", Config{Parse: ParseConfig{Strict: true}}, false},
		{"RenderWidth", Config{Render: RenderConfig{Width: 40}}, false},
		{"LogLevel", Config{Log: LogConfig{Level: "info"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.IsEmpty())
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	t.Parallel()

	t.Run("MergesBothConfigs", func(t *testing.T) {
		t.Parallel()
		base := &Config{
			Types:  []string{"md"},
			Parse:  ParseConfig{FencePolicy: "skip", Concurrency: 2},
			Render: RenderConfig{Renderer: "terminal", Width: 80},
		}
		base.Merge(&Config{
			Types:  []string{"json"},
			Scan:   ScanConfig{Exclude: []string{"drafts/**"}},
			Parse:  ParseConfig{FencePolicy: "duplicate", Strict: true},
			Render: RenderConfig{Width: 120},
			Server: ServerConfig{Addr: ":9000"},
		})

		assert.Equal(t, []string{"md", "json"}, base.Types)
		assert.Equal(t, []string{"drafts/**"}, base.Scan.Exclude)
		assert.Equal(t, ParseConfig{FencePolicy: "duplicate", Concurrency: 2, Strict: true}, base.Parse)
		assert.Equal(t, RenderConfig{Renderer: "terminal", Width: 120}, base.Render)
		assert.Equal(t, ":9000", base.Server.Addr)
	})

	t.Run("MergeNilOther", func(t *testing.T) {
		t.Parallel()
		base := &Config{Types: []string{"md"}}
		base.Merge(nil)
		assert.Equal(t, []string{"md"}, base.Types)
	})

	t.Run("MergeIntoEmpty", func(t *testing.T) {
		t.Parallel()
		base := &Config{}
		base.Merge(&Config{Log: LogConfig{Level: "warn"}})
		assert.Equal(t, "warn", base.Log.Level)
		assert.False(t, base.IsEmpty())
	})
}
