package sweep

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// testGrid builds a grid with mines forced at the given indices, bypassing
// random placement.
func testGrid(t *testing.T, rows, cols int, mines ...int) *Grid {
	t.Helper()
	g := newEmptyGrid(rows, cols)
	g.placeMines(mines)
	return g
}

func TestNewGridMineCount(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{3, 3},
		{5, 5},
		{9, 9},
		{16, 16},
		{16, 30},
		{7, 13},
	}
	for _, test := range tests {
		r := rand.New(rand.NewPCG(1, 2))
		g, err := NewGrid(test.rows, test.cols, r)
		require.NoError(t, err)

		want := int(math.Round(float64(test.rows*test.cols) * MineDensity))
		assert.Equal(t, want, g.TotalMines())
		assert.Len(t, g.mineIndices(), want)

		// mineIndices scans the grid, so every index is distinct by
		// construction; counts must match the placed mines exactly
		for i, cell := range g.cells {
			adjMines := 0
			for _, adj := range AdjacentIndices(test.rows, test.cols, i) {
				if g.cells[adj].IsMined() {
					adjMines++
				}
			}
			if !cell.IsMined() {
				assert.Equal(t, uint8(adjMines), cell.AdjMineCount(),
					"cell %d of %dx%d", i, test.rows, test.cols)
			}
			assert.False(t, cell.IsRevealed())
		}
	}
}

func TestNewGridRejectsDegenerateDimensions(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {0, 0}, {-1, 3}} {
		_, err := NewGrid(dims[0], dims[1], r)
		assert.Error(t, err, "%dx%d", dims[0], dims[1])
	}
}

func TestRandomIndicesDistinct(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	indices := randomIndices(100, 15, r)
	assert.Len(t, indices, 15)
	seen := make(map[int]struct{})
	for _, i := range indices {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 100)
		_, dup := seen[i]
		assert.False(t, dup, "duplicate index %d", i)
		seen[i] = struct{}{}
	}
}

func TestAdjacentIndices(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		index      int
		want       []int
	}{
		{"corner", 5, 5, 0, []int{1, 5, 6}},
		{"opposite corner", 5, 5, 24, []int{18, 19, 23}},
		{"edge", 5, 5, 2, []int{1, 3, 6, 7, 8}},
		{"interior", 5, 5, 7, []int{1, 2, 3, 6, 8, 11, 12, 13}},
		{"single column", 3, 1, 1, []int{0, 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := AdjacentIndices(test.rows, test.cols, test.index)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestToIndex(t *testing.T) {
	g := testGrid(t, 4, 7)
	assert.Equal(t, 0, g.ToIndex(0, 0))
	assert.Equal(t, 9, g.ToIndex(1, 2))
	assert.Equal(t, 27, g.ToIndex(3, 6))
}

func TestCheckIndex(t *testing.T) {
	g := testGrid(t, 3, 3)
	assert.NoError(t, g.CheckIndex(0))
	assert.NoError(t, g.CheckIndex(8))
	assert.ErrorIs(t, g.CheckIndex(9), ErrIndexOutOfBounds)
	assert.ErrorIs(t, g.CheckIndex(-1), ErrIndexOutOfBounds)
	assert.ErrorIs(t, g.RevealCell(100), ErrIndexOutOfBounds)
	assert.ErrorIs(t, g.ToggleFlag(-5), ErrIndexOutOfBounds)
}

func TestRevealCellFloodFill(t *testing.T) {
	// single mine in the bottom-right corner; everything else is far
	// enough to cascade from one click on the opposite corner
	g := testGrid(t, 5, 5, 24)

	require.NoError(t, g.RevealCell(0))

	for i, cell := range g.cells {
		if cell.IsMined() {
			assert.Equal(t, Hidden, cell.State(), "mine at %d", i)
		} else {
			assert.True(t, cell.IsRevealed(), "empty cell at %d", i)
		}
	}
}

func TestRevealCellIdempotent(t *testing.T) {
	g := testGrid(t, 5, 5, 24)

	require.NoError(t, g.RevealCell(6))
	snapshot := make([]Cell, len(g.cells))
	copy(snapshot, g.cells)

	require.NoError(t, g.RevealCell(6))
	assert.Equal(t, snapshot, g.cells)
}

func TestRevealCellStopsAtNumberedBorder(t *testing.T) {
	// mine in the middle of a 5x5: its eight neighbours are numbered and
	// act as the cascade boundary
	g := testGrid(t, 5, 5, 12)

	require.NoError(t, g.RevealCell(0))

	assert.Equal(t, Hidden, g.cells[12].State())
	for _, i := range AdjacentIndices(5, 5, 12) {
		assert.True(t, g.cells[i].IsRevealed(), "border cell %d", i)
	}
}

func TestRevealMineLosesGame(t *testing.T) {
	g := testGrid(t, 5, 5, 24)
	assert.False(t, g.IsGameLost())

	require.NoError(t, g.RevealCell(24))
	assert.True(t, g.IsGameLost())
}

func TestToggleFlag(t *testing.T) {
	g := testGrid(t, 3, 3, 4)

	require.NoError(t, g.ToggleFlag(0))
	assert.True(t, g.cells[0].IsFlagged())

	require.NoError(t, g.ToggleFlag(0))
	assert.Equal(t, Hidden, g.cells[0].State())
}

func TestToggleFlagOnQuestionedCell(t *testing.T) {
	// a questioned cell counts as hidden for toggle purposes
	g := testGrid(t, 3, 3, 4)

	require.NoError(t, g.QuestionCell(0))
	require.NoError(t, g.ToggleFlag(0))
	assert.True(t, g.cells[0].IsFlagged())
}

func TestToggleQuestion(t *testing.T) {
	g := testGrid(t, 3, 3, 4)

	require.NoError(t, g.ToggleQuestion(0))
	assert.True(t, g.cells[0].IsQuestioned())

	require.NoError(t, g.ToggleQuestion(0))
	assert.Equal(t, Hidden, g.cells[0].State())
}

func TestForceMarks(t *testing.T) {
	g := testGrid(t, 3, 3, 4)

	require.NoError(t, g.FlagCell(0))
	assert.True(t, g.cells[0].IsFlagged())

	require.NoError(t, g.QuestionCell(0))
	assert.True(t, g.cells[0].IsQuestioned())

	require.NoError(t, g.UnmarkCell(0))
	assert.Equal(t, Hidden, g.cells[0].State())
}

func TestMarkingRevealedCellIsNoop(t *testing.T) {
	g := testGrid(t, 3, 3, 4)
	require.NoError(t, g.RevealCell(0))
	require.True(t, g.cells[0].IsRevealed())

	ops := []struct {
		name string
		op   func(int) error
	}{
		{"toggle flag", g.ToggleFlag},
		{"toggle question", g.ToggleQuestion},
		{"flag", g.FlagCell},
		{"question", g.QuestionCell},
		{"unmark", g.UnmarkCell},
	}
	for _, test := range ops {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.op(0))
			assert.Equal(t, Revealed, g.cells[0].State())
		})
	}
}

func TestRemainingFlags(t *testing.T) {
	g := testGrid(t, 5, 5, 3, 14, 20, 22) // TotalMines() == 4

	assert.Equal(t, 4, g.RemainingFlags())

	require.NoError(t, g.FlagCell(3))
	require.NoError(t, g.FlagCell(14))
	assert.Equal(t, 2, g.RemainingFlags())

	// over-flagging drives the count negative instead of wrapping
	for _, i := range []int{0, 1, 2, 5, 6} {
		require.NoError(t, g.FlagCell(i))
	}
	assert.Equal(t, -3, g.RemainingFlags())
}

func TestIsGameWon(t *testing.T) {
	mines := []int{3, 14, 20, 22}
	g := testGrid(t, 5, 5, mines...)
	assert.False(t, g.IsGameWon())

	for _, i := range mines[:3] {
		require.NoError(t, g.FlagCell(i))
	}
	assert.False(t, g.IsGameWon())

	require.NoError(t, g.FlagCell(mines[3]))
	assert.True(t, g.IsGameWon())

	// flags elsewhere do not revoke the win on their own
	require.NoError(t, g.FlagCell(0))
	assert.True(t, g.IsGameWon())
}

func TestIsGameWonMismatchedFlags(t *testing.T) {
	g := testGrid(t, 5, 5, 3, 14, 20, 22)

	// right number of flags, wrong cells
	for _, i := range []int{0, 1, 2, 4} {
		require.NoError(t, g.FlagCell(i))
	}
	assert.False(t, g.IsGameWon())
}

func TestIsGameLostOutOfFlags(t *testing.T) {
	g := testGrid(t, 5, 5, 3, 14, 20, 22)

	// all four flags spent, one of them misplaced
	for _, i := range []int{3, 14, 20, 0} {
		require.NoError(t, g.FlagCell(i))
	}
	assert.Equal(t, 0, g.RemainingFlags())
	assert.True(t, g.IsGameLost())
}

func TestIsGameLostNotWhileFlagsRemain(t *testing.T) {
	g := testGrid(t, 5, 5, 3, 14, 20, 22)

	require.NoError(t, g.FlagCell(0)) // misplaced, but flags remain
	assert.False(t, g.IsGameLost())
}

func TestFlaggedAndUnflaggedMineCell(t *testing.T) {
	g := testGrid(t, 3, 3, 4)

	unflagged, err := g.UnflaggedMineCell(4)
	require.NoError(t, err)
	assert.True(t, unflagged)

	require.NoError(t, g.FlagCell(4))
	flagged, err := g.FlaggedMineCell(4)
	require.NoError(t, err)
	assert.True(t, flagged)

	flagged, err = g.FlaggedMineCell(0)
	require.NoError(t, err)
	assert.False(t, flagged)

	_, err = g.FlaggedMineCell(9)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestGridSnapshotRoundTrip(t *testing.T) {
	g := testGrid(t, 4, 4, 5, 10)
	require.NoError(t, g.RevealCell(0))
	require.NoError(t, g.FlagCell(5))

	b, err := g.Bytes()
	require.NoError(t, err)

	restored, err := DecodeGrid(b)
	require.NoError(t, err)
	assert.Equal(t, g.rows, restored.rows)
	assert.Equal(t, g.cols, restored.cols)
	assert.Equal(t, g.cells, restored.cells)
}

func TestRender(t *testing.T) {
	g := testGrid(t, 3, 3, 0)

	require.NoError(t, g.ToggleFlag(0))
	require.NoError(t, g.QuestionCell(2))
	require.NoError(t, g.RevealCell(4))

	assert.Equal(t, " ⚑ □ ?\n □ 1 □\n □ □ □\n", g.Render())

	// the cascade from the lone corner opens everything but the flag
	require.NoError(t, g.RevealCell(8))
	assert.Equal(t, " ⚑ 1 0\n 1 1 0\n 0 0 0\n", g.Render())
	assert.Equal(t, g.Render(), g.String())
}

func TestDebugRender(t *testing.T) {
	g := testGrid(t, 3, 3, 0)
	assert.Equal(t, " ● 1 0\n 1 1 0\n 0 0 0\n", g.DebugRender())
}
