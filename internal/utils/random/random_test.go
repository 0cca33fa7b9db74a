package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	s, err := Hex(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)
	for _, c := range s {
		assert.Contains(t, CharsetHex, string(c))
	}
}

func TestString(t *testing.T) {
	t.Run("uses charset", func(t *testing.T) {
		s, err := String(40, "ab")
		require.NoError(t, err)
		assert.Len(t, s, 40)
		assert.Empty(t, strings.Trim(s, "ab"))
	})

	t.Run("non-positive length", func(t *testing.T) {
		s, err := String(0, "")
		require.NoError(t, err)
		assert.Empty(t, s)
	})
}

func TestOrderKey(t *testing.T) {
	a, err := OrderKey()
	require.NoError(t, err)
	b, err := OrderKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "wc_order_"))
	assert.Len(t, a, len("wc_order_")+13)
	assert.NotEqual(t, a, b)
}
