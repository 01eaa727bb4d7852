package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	g := Grid(250, 120, 20)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100, 120, 140, 160, 180, 200, 220, 240}, g.MinorX)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100}, g.MinorY)
	assert.Equal(t, []int{0, 100, 200}, g.MajorX)
	assert.Equal(t, []int{0, 100}, g.MajorY)
}

func TestGridDegenerate(t *testing.T) {
	assert.Empty(t, Grid(0, 100, 20).MinorX)
	assert.Equal(t, Grid(100, 40, DefaultGridStep), Grid(100, 40, 0))
}
