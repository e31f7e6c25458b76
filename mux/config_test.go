package mux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.Return405)
	assert.True(t, c.GenerateOptions)
	assert.True(t, c.TrimStrings)
	assert.False(t, c.OptimizeTree)
	assert.Empty(t, c.BasePath)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Config
		wantErr bool
	}{
		{
			name: "empty document keeps defaults",
			doc:  "",
			want: DefaultConfig(),
		},
		{
			name: "overrides",
			doc:  "base_path: /api\nreturn_405: false\noptimize_tree: true\n",
			want: Config{BasePath: "/api", GenerateOptions: true, OptimizeTree: true, TrimStrings: true},
		},
		{
			name: "all fields",
			doc:  "base_path: /v1\nreturn_405: true\ngenerate_options: false\noptimize_tree: false\ntrim_strings: false\n",
			want: Config{BasePath: "/v1", Return405: true},
		},
		{
			name:    "unknown key",
			doc:     "base: /api\n",
			wantErr: true,
		},
		{
			name:    "relative base path",
			doc:     "base_path: api\n",
			wantErr: true,
		},
		{
			name:    "wrong type",
			doc:     "return_405: maybe\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig(strings.NewReader(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := ConfigFromEnv("RESTMUX_TEST_EMPTY")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RESTMUX_BASE_PATH", "/api")
		t.Setenv("RESTMUX_RETURN_405", "false")
		t.Setenv("RESTMUX_GENERATE_OPTIONS", "false")
		t.Setenv("RESTMUX_OPTIMIZE_TREE", "true")
		t.Setenv("RESTMUX_TRIM_STRINGS", "false")

		c, err := ConfigFromEnv("RESTMUX")
		require.NoError(t, err)
		assert.Equal(t, Config{BasePath: "/api", OptimizeTree: true}, c)
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Setenv("RESTMUX_BAD_RETURN_405", "nope")

		_, err := ConfigFromEnv("RESTMUX_BAD")
		assert.Error(t, err)
	})

	t.Run("invalid base path", func(t *testing.T) {
		t.Setenv("RESTMUX_REL_BASE_PATH", "api")

		_, err := ConfigFromEnv("RESTMUX_REL")
		assert.Error(t, err)
	})
}
