package sweep

// CellState tracks what the player has done to a cell. States are mutually
// exclusive; a cell is in exactly one of them at a time.
type CellState uint8

const (
	Revealed CellState = iota
	Flagged
	Questioned
	Hidden
)

func (s CellState) String() string {
	switch s {
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	case Questioned:
		return "questioned"
	default:
		return "hidden"
	}
}

// CellKind is fixed at grid generation and never changes afterwards.
type CellKind uint8

const (
	Mine CellKind = iota
	Empty
)

// Glyphs used by the textual renders.
const (
	MineRune     = '●' // black circle
	RevealedRune = '0'
	HiddenRune   = '□' // white square
	QuestionRune = '?'
	FlagRune     = '⚑' // black flag
)

// Cell is a single square of a minesweeper grid: its reveal/mark state, its
// kind and the precomputed count of mines among its neighbours.
type Cell struct {
	state    CellState
	kind     CellKind
	adjMines uint8
}

// NewCell returns a hidden cell of the given kind with no adjacent mines.
func NewCell(kind CellKind) Cell {
	return Cell{state: Hidden, kind: kind}
}

func (c Cell) IsFlagged() bool    { return c.state == Flagged }
func (c Cell) IsQuestioned() bool { return c.state == Questioned }
func (c Cell) IsRevealed() bool   { return c.state == Revealed }
func (c Cell) IsMined() bool      { return c.kind == Mine }

// IsLone reports whether the cell is empty and borders no mines. Lone cells
// are what the flood fill propagates through.
func (c Cell) IsLone() bool {
	return c.kind == Empty && c.adjMines == 0
}

func (c Cell) State() CellState { return c.state }
func (c Cell) Kind() CellKind   { return c.kind }

func (c *Cell) SetState(state CellState) { c.state = state }
func (c *Cell) SetKind(kind CellKind)    { c.kind = kind }

func (c Cell) AdjMineCount() uint8          { return c.adjMines }
func (c *Cell) SetAdjMineCount(count uint8) { c.adjMines = count }

// Rune returns the glyph a player sees for this cell.
func (c Cell) Rune() rune {
	switch c.state {
	case Revealed:
		switch {
		case c.kind == Mine:
			return MineRune
		case c.adjMines > 0:
			return rune('0' + c.adjMines)
		default:
			return RevealedRune
		}
	case Flagged:
		return FlagRune
	case Questioned:
		return QuestionRune
	default:
		return HiddenRune
	}
}

// KindRune returns the glyph for the cell's kind and count regardless of its
// reveal state. Useful for debugging a freshly generated grid.
func (c Cell) KindRune() rune {
	if c.kind == Mine {
		return MineRune
	}
	return rune('0' + c.adjMines)
}
