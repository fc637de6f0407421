package sweep

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// gridSnapshot is the gob image of a grid. Cell fields are unexported, so
// the columns are flattened into parallel slices instead.
type gridSnapshot struct {
	Rows, Cols int
	States     []CellState
	Kinds      []CellKind
	Counts     []uint8
}

// Bytes serializes the grid with gob for storage.
func (g *Grid) Bytes() ([]byte, error) {
	snap := gridSnapshot{
		Rows:   g.rows,
		Cols:   g.cols,
		States: make([]CellState, len(g.cells)),
		Kinds:  make([]CellKind, len(g.cells)),
		Counts: make([]uint8, len(g.cells)),
	}
	for i, cell := range g.cells {
		snap.States[i] = cell.state
		snap.Kinds[i] = cell.kind
		snap.Counts[i] = cell.adjMines
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeGrid restores a grid from a Bytes snapshot.
func DecodeGrid(buf []byte) (*Grid, error) {
	var snap gridSnapshot
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&snap); err != nil {
		return nil, err
	}
	if len(snap.States) != snap.Rows*snap.Cols ||
		len(snap.Kinds) != len(snap.States) ||
		len(snap.Counts) != len(snap.States) {
		return nil, fmt.Errorf("malformed grid snapshot (%dx%d, %d cells)",
			snap.Rows, snap.Cols, len(snap.States))
	}
	g := &Grid{
		cells: make([]Cell, len(snap.States)),
		rows:  snap.Rows,
		cols:  snap.Cols,
	}
	for i := range g.cells {
		g.cells[i] = Cell{
			state:    snap.States[i],
			kind:     snap.Kinds[i],
			adjMines: snap.Counts[i],
		}
	}
	return g, nil
}
