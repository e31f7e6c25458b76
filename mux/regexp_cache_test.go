package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRegexp(t *testing.T) {
	t.Run("compiles valid expression", func(t *testing.T) {
		re, err := compileRegexp(`^(?i)/users/(?P<id>[0-9]+)/?(\?.*)?$`)
		require.NoError(t, err)
		assert.True(t, re.MatchString("/Users/12?x=1"))
		assert.False(t, re.MatchString("/users/abc"))
	})

	t.Run("returns cached instance", func(t *testing.T) {
		re1, err := compileRegexp(`^cached-test-[a-z]+$`)
		require.NoError(t, err)
		re2, err := compileRegexp(`^cached-test-[a-z]+$`)
		require.NoError(t, err)
		assert.Same(t, re1, re2)
	})

	t.Run("patterns with one template share expressions", func(t *testing.T) {
		a := MustCompilePattern("/cache/{id:int}", nil)
		b := MustCompilePattern("/cache/{id:int}", nil)
		assert.Same(t, a.Regexp(), b.Regexp())
	})

	t.Run("invalid expression returns error", func(t *testing.T) {
		_, err := compileRegexp(`^([0-9+$`)
		assert.Error(t, err)
	})
}

func BenchmarkCompileRegexpCached(b *testing.B) {
	compileRegexp(`^[0-9]+$`) //nolint:errcheck

	b.ResetTimer()
	for b.Loop() {
		compileRegexp(`^[0-9]+$`) //nolint:errcheck
	}
}
