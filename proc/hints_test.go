package proc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHints_GetUnsetKey(t *testing.T) {
	h := Hints{}
	_, ok := h.Get(HintCBBufferSize)
	require.False(t, ok)
}

func TestHints_WithReturnsIndependentCopy(t *testing.T) {
	h := Hints{}
	h2 := h.With(HintStripingUnit, "1048576")

	_, ok := h.Get(HintStripingUnit)
	require.False(t, ok)

	v, ok := h2.Get(HintStripingUnit)
	require.True(t, ok)
	require.Equal(t, "1048576", v)
}

func TestHints_WithPreservesExistingKeys(t *testing.T) {
	h := Hints{HintRomioCBRead: "enable"}
	h2 := h.With(HintRomioDSRead, "disable")

	v, ok := h2.Get(HintRomioCBRead)
	require.True(t, ok)
	require.Equal(t, "enable", v)
	v, ok = h2.Get(HintRomioDSRead)
	require.True(t, ok)
	require.Equal(t, "disable", v)
}
