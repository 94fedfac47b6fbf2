package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvas_SetMapsToBrailleBits(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	assert.Equal(t, rune(0x2801), c.Grid[0][0])

	c.Set(3, 3)
	assert.Equal(t, rune(0x2880), c.Grid[0][1])

	assert.True(t, c.IsSet(0, 0))
	assert.False(t, c.IsSet(1, 0))

	c.Unset(0, 0)
	assert.Equal(t, rune(brailleBlank), c.Grid[0][0])
}

func TestCanvas_OutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	w, h := c.Dots()
	assert.Equal(t, 4, w)
	assert.Equal(t, 8, h)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {w, 0}, {0, h}} {
		c.Set(p[0], p[1])
		assert.False(t, c.IsSet(p[0], p[1]))
	}
	assert.Equal(t, NewCanvas(2, 2).String(), c.String())
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		assert.True(t, c.IsSet(i, i), "diagonal dot %d", i)
	}

	c.Clear()
	c.DrawLine(6, 2, 1, 2)
	for x := 1; x <= 6; x++ {
		assert.True(t, c.IsSet(x, 2))
	}
	assert.False(t, c.IsSet(0, 2))
	assert.False(t, c.IsSet(7, 2))
}

func TestCanvas_BlobAndString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Blob(2, 2, 1)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			assert.True(t, c.IsSet(x, y))
		}
	}

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 3, len([]rune(l)))
	}
}
