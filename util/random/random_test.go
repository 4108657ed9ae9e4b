package random

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeq(t *testing.T) {
	s := Seq(32)
	assert.Len(t, s, 32)
	for _, r := range s {
		assert.Contains(t, alphanumeric, string(r))
	}
}

func TestHex(t *testing.T) {
	a, err := Hex(32)
	require.NoError(t, err)
	b, err := Hex(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	_, err = hex.DecodeString(a)
	assert.NoError(t, err)
}

func TestNumRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := Num(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
}
