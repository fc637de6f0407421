package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrIndexOutOfBounds is returned by any grid operation handed an index
// outside [0, rows*cols). Flat-array addressing has no implicit bounds
// protection, so every entry point checks explicitly.
var ErrIndexOutOfBounds = errors.New("cell index out of bounds")

// Grid is a minesweeper board: a row-major flat slice of cells plus its
// dimensions. All player actions mutate it in place.
type Grid struct {
	cells []Cell
	rows  int
	cols  int
}

// NewGrid builds a rows x cols grid, places round(rows*cols*0.15) mines at
// distinct random locations drawn from src and precomputes every cell's
// adjacent-mine count.
func NewGrid(rows, cols int, src Uniform) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", rows, cols)
	}
	g := newEmptyGrid(rows, cols)
	mineIndices := randomIndices(rows*cols, g.TotalMines(), src)
	g.placeMines(mineIndices)
	Log.WithFields(logrus.Fields{
		"rows":  rows,
		"cols":  cols,
		"mines": len(mineIndices),
	}).Debug("generated grid")
	return g, nil
}

func newEmptyGrid(rows, cols int) *Grid {
	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = NewCell(Empty)
	}
	return &Grid{cells: cells, rows: rows, cols: cols}
}

// placeMines turns the cells at the given indices into mines and bumps the
// adjacent-mine count of each of their neighbours. A cell next to several
// mines is bumped once per mine; counts accumulated on mine cells are
// never read.
func (g *Grid) placeMines(indices []int) {
	for _, i := range indices {
		g.cells[i].SetKind(Mine)
	}
	for _, i := range indices {
		for _, adj := range AdjacentIndices(g.rows, g.cols, i) {
			g.cells[adj].SetAdjMineCount(g.cells[adj].AdjMineCount() + 1)
		}
	}
}

func (g *Grid) Rows() int     { return g.rows }
func (g *Grid) Cols() int     { return g.cols }
func (g *Grid) NumCells() int { return len(g.cells) }

// ToIndex translates a row, column pair into a flat row-major index.
func (g *Grid) ToIndex(row, col int) int {
	return row*g.cols + col
}

// CheckIndex reports ErrIndexOutOfBounds for indices outside the grid.
func (g *Grid) CheckIndex(index int) error {
	if index < 0 || index >= len(g.cells) {
		return fmt.Errorf("%w: %d on a %dx%d grid",
			ErrIndexOutOfBounds, index, g.rows, g.cols)
	}
	return nil
}

// At returns a copy of the cell at index.
func (g *Grid) At(index int) (Cell, error) {
	if err := g.CheckIndex(index); err != nil {
		return Cell{}, err
	}
	return g.cells[index], nil
}

// AdjacentIndices returns the indices of the up-to-8 cells surrounding
// index, clipped to the grid bounds and excluding index itself, in
// row-major order. It depends only on the dimensions, not on grid state.
func AdjacentIndices(rows, cols, index int) []int {
	r := index / cols
	c := index % cols
	adj := make([]int, 0, 8)
	for nr := max(r-1, 0); nr <= min(r+1, rows-1); nr++ {
		for nc := max(c-1, 0); nc <= min(c+1, cols-1); nc++ {
			if nr == r && nc == c {
				continue
			}
			adj = append(adj, nr*cols+nc)
		}
	}
	return adj
}

// connectedLoneCells walks the lone-cell adjacency graph from index with an
// iterative depth-first search and returns every lone cell reachable from
// it. The seed itself need not be lone; non-lone cells are never expanded,
// so they bound the region. The visited set guarantees termination.
func (g *Grid) connectedLoneCells(index int) []int {
	var (
		connected []int
		stack     = []int{index}
		visited   = make(map[int]struct{})
	)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		if g.cells[cur].IsLone() {
			connected = append(connected, cur)
		}
		for _, adj := range AdjacentIndices(g.rows, g.cols, cur) {
			if g.cells[adj].IsLone() {
				stack = append(stack, adj)
			}
		}
	}
	return connected
}

// revealLoneCells opens the connected lone-cell region around index plus
// the region's perimeter, i.e. every cell adjacent to any cell of the
// region. This is the classic cascade: the whole contiguous zero-count
// zone opens along with its numbered border.
func (g *Grid) revealLoneCells(index int) {
	region := g.connectedLoneCells(index)

	perimeter := make(map[int]struct{})
	for _, i := range region {
		for _, adj := range AdjacentIndices(g.rows, g.cols, i) {
			perimeter[adj] = struct{}{}
		}
	}

	// Region cells are all lone, so opening them directly is exactly the
	// cascade revealCell would have triggered for each; doing it up front
	// keeps the fill iterative instead of mutually recursive.
	for _, i := range region {
		g.cells[i].SetState(Revealed)
	}
	for i := range perimeter {
		g.revealCell(i)
	}
}

// RevealCell opens the cell at index. Opening an already-revealed cell is
// a no-op; opening a lone cell cascades through its connected region.
func (g *Grid) RevealCell(index int) error {
	if err := g.CheckIndex(index); err != nil {
		return err
	}
	g.revealCell(index)
	return nil
}

func (g *Grid) revealCell(index int) {
	if g.cells[index].IsRevealed() {
		return
	}
	g.cells[index].SetState(Revealed)
	if g.cells[index].IsLone() {
		g.revealLoneCells(index)
	}
}

// ToggleFlag flips the cell at index between Flagged and Hidden. A
// questioned cell counts as hidden and becomes flagged. Revealed cells are
// left alone.
func (g *Grid) ToggleFlag(index int) error {
	if err := g.CheckIndex(index); err != nil {
		return err
	}
	if g.cells[index].IsRevealed() {
		return nil
	}
	if g.cells[index].IsFlagged() {
		g.cells[index].SetState(Hidden)
	} else {
		g.cells[index].SetState(Flagged)
	}
	return nil
}

// ToggleQuestion flips the cell at index between Questioned and Hidden,
// symmetric to ToggleFlag. Revealed cells are left alone.
func (g *Grid) ToggleQuestion(index int) error {
	if err := g.CheckIndex(index); err != nil {
		return err
	}
	if g.cells[index].IsRevealed() {
		return nil
	}
	if g.cells[index].IsQuestioned() {
		g.cells[index].SetState(Hidden)
	} else {
		g.cells[index].SetState(Questioned)
	}
	return nil
}

// FlagCell force-sets the cell at index to Flagged unless it is revealed.
func (g *Grid) FlagCell(index int) error {
	return g.setUnrevealed(index, Flagged)
}

// QuestionCell force-sets the cell at index to Questioned unless it is
// revealed.
func (g *Grid) QuestionCell(index int) error {
	return g.setUnrevealed(index, Questioned)
}

// UnmarkCell clears any mark from the cell at index, returning it to
// Hidden, unless it is revealed.
func (g *Grid) UnmarkCell(index int) error {
	return g.setUnrevealed(index, Hidden)
}

func (g *Grid) setUnrevealed(index int, state CellState) error {
	if err := g.CheckIndex(index); err != nil {
		return err
	}
	if !g.cells[index].IsRevealed() {
		g.cells[index].SetState(state)
	}
	return nil
}

func (g *Grid) mineIndices() []int {
	var mines []int
	for i, cell := range g.cells {
		if cell.IsMined() {
			mines = append(mines, i)
		}
	}
	return mines
}

// TotalMines is derived from the dimensions, never cached: the same
// formula the generator used, round(rows*cols*0.15).
func (g *Grid) TotalMines() int {
	return int(math.Round(float64(g.rows*g.cols) * MineDensity))
}

// RemainingFlags is the mine total minus the number of currently flagged
// cells. It goes negative when the player over-flags.
func (g *Grid) RemainingFlags() int {
	flagged := 0
	for _, cell := range g.cells {
		if cell.IsFlagged() {
			flagged++
		}
	}
	return g.TotalMines() - flagged
}

// FlaggedMineCell reports whether the cell at index is a correctly flagged
// mine.
func (g *Grid) FlaggedMineCell(index int) (bool, error) {
	cell, err := g.At(index)
	if err != nil {
		return false, err
	}
	return cell.IsFlagged() && cell.IsMined(), nil
}

// UnflaggedMineCell reports whether the cell at index holds a mine the
// player has not flagged.
func (g *Grid) UnflaggedMineCell(index int) (bool, error) {
	cell, err := g.At(index)
	if err != nil {
		return false, err
	}
	return !cell.IsFlagged() && cell.IsMined(), nil
}

// IsGameWon reports whether every mine cell is currently flagged. Flags on
// empty cells do not block the win on their own, but they exhaust the flag
// supply, which IsGameLost picks up.
func (g *Grid) IsGameWon() bool {
	for _, i := range g.mineIndices() {
		if !g.cells[i].IsFlagged() {
			return false
		}
	}
	return true
}

// IsGameLost reports whether any mine has been revealed, or the player has
// spent every flag with at least one of them sitting on an empty cell.
func (g *Grid) IsGameLost() bool {
	for _, i := range g.mineIndices() {
		if g.cells[i].IsRevealed() {
			return true
		}
	}
	misflagged := false
	for _, cell := range g.cells {
		if cell.IsFlagged() && !cell.IsMined() {
			misflagged = true
			break
		}
	}
	return g.RemainingFlags() == 0 && misflagged
}
