package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweeper/internal/sweep"
)

func testingGrid(t *testing.T) *sweep.Grid {
	t.Helper()
	g, err := sweep.NewGrid(9, 9, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return g
}

func TestExecuteCommandMarks(t *testing.T) {
	g := testingGrid(t)

	require.NoError(t, executeCommand(g, "f 0"))
	cell, err := g.At(0)
	require.NoError(t, err)
	assert.True(t, cell.IsFlagged())

	require.NoError(t, executeCommand(g, "q 1"))
	cell, err = g.At(1)
	require.NoError(t, err)
	assert.True(t, cell.IsQuestioned())

	require.NoError(t, executeCommand(g, "u 0"))
	cell, err = g.At(0)
	require.NoError(t, err)
	assert.Equal(t, sweep.Hidden, cell.State())
}

func TestExecuteCommandToggles(t *testing.T) {
	g := testingGrid(t)

	require.NoError(t, executeCommand(g, "tf 5"))
	cell, err := g.At(5)
	require.NoError(t, err)
	assert.True(t, cell.IsFlagged())

	require.NoError(t, executeCommand(g, "tf 5"))
	cell, err = g.At(5)
	require.NoError(t, err)
	assert.Equal(t, sweep.Hidden, cell.State())

	require.NoError(t, executeCommand(g, "tq 5"))
	cell, err = g.At(5)
	require.NoError(t, err)
	assert.True(t, cell.IsQuestioned())
}

func TestExecuteCommandReveal(t *testing.T) {
	g := testingGrid(t)

	require.NoError(t, executeCommand(g, "r 0"))
	cell, err := g.At(0)
	require.NoError(t, err)
	assert.True(t, cell.IsRevealed())
}

func TestExecuteCommandSync(t *testing.T) {
	assert.NoError(t, executeCommand(testingGrid(t), "s"))
}

func TestExecuteCommandErrors(t *testing.T) {
	g := testingGrid(t)

	tests := []struct {
		name    string
		command string
	}{
		{"unknown command", "x 1"},
		{"missing argument", "r"},
		{"extra argument", "s 1"},
		{"non-numeric index", "r abc"},
		{"index out of bounds", "r 81"},
		{"negative index", "f -1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Error(t, executeCommand(g, test.command))
		})
	}
}
