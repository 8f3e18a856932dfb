package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexOf_Bijection(t *testing.T) {
	for i, c := range Colors {
		idx, ok := IndexOf(c)
		require.True(t, ok, "color %s should be in the palette", c)
		assert.Equal(t, i, idx)

		back, err := At(idx)
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}
}

func TestIndexOf_CaseInsensitive(t *testing.T) {
	idx, ok := IndexOf("#e50000")
	require.True(t, ok)
	assert.Equal(t, 5, idx)

	idx, ok = IndexOf("  #ffa7d1 ")
	require.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestIndexOf_Unknown(t *testing.T) {
	_, ok := IndexOf("#123456")
	assert.False(t, ok)

	_, ok = IndexOf("red")
	assert.False(t, ok)
}

func TestAt_OutOfRange(t *testing.T) {
	_, err := At(-1)
	assert.Error(t, err)

	_, err = At(16)
	assert.Error(t, err)
}

func TestBackground_IsIndexZero(t *testing.T) {
	idx, ok := IndexOf(Background)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestRGB(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 229, G: 0, B: 0, A: 255}, RGB("#E50000"))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, RGB("#FFFFFF"))
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 234, A: 255}, RGB("#0000ea"))

	// Unparseable colors fall back to the background.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, RGB("nonsense"))
}
