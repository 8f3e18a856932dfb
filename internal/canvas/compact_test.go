package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactRoundTrip(t *testing.T) {
	cells := []Cell{
		{X: 10, Y: 20, Index: 5},
		{X: 0, Y: 0, Index: 0},
		{X: 99, Y: 99, Index: 15},
	}

	encoded := EncodeCompact(cells)
	assert.Equal(t, "10,20,5;0,0,0;99,99,15;", encoded)

	decoded, err := DecodeCompact(encoded)
	require.NoError(t, err)
	assert.Equal(t, cells, decoded)
}

func TestCompactEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeCompact(nil))

	decoded, err := DecodeCompact("")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeCompact_Malformed(t *testing.T) {
	cases := []string{
		"10,20,5",     // missing terminator
		"10,20;",      // missing field
		"a,20,5;",     // non-numeric x
		"10,b,5;",     // non-numeric y
		"10,20,nope;", // non-numeric index
		"10,20,16;",   // index outside palette
		"10,20,-1;",   // negative index
	}
	for _, in := range cases {
		_, err := DecodeCompact(in)
		assert.Error(t, err, "input %q should not decode", in)
	}
}

func TestCompactCells_Translation(t *testing.T) {
	who := "a1"
	pixels := []Pixel{
		{X: 110, Y: 220, Color: "#E50000", MoltID: &who, UpdatedAt: time.Now()},
		{X: 100, Y: 200, Color: "#e50000"}, // lowercase still maps
	}

	cells := CompactCells(pixels, 100, 200)
	require.Len(t, cells, 2)
	assert.Equal(t, Cell{X: 10, Y: 20, Index: 5}, cells[0])
	assert.Equal(t, Cell{X: 0, Y: 0, Index: 5}, cells[1])
}

func TestCompactCells_UnknownColorMapsToBackground(t *testing.T) {
	cells := CompactCells([]Pixel{{X: 1, Y: 2, Color: "#ABCDEF"}}, 0, 0)
	require.Len(t, cells, 1)
	assert.Equal(t, 0, cells[0].Index)
}
