package sweep

import "strings"

// Render returns the grid as the player sees it, one glyph per cell.
func (g *Grid) Render() string {
	return g.renderWith(Cell.Rune)
}

// DebugRender returns the raw kind/count of every cell regardless of its
// reveal state.
func (g *Grid) DebugRender() string {
	return g.renderWith(Cell.KindRune)
}

func (g *Grid) renderWith(glyph func(Cell) rune) string {
	var b strings.Builder
	for r := range g.rows {
		for c := range g.cols {
			b.WriteByte(' ')
			b.WriteRune(glyph(g.cells[g.ToIndex(r, c)]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// [Grid] implements [fmt.Stringer]
func (g *Grid) String() string {
	return g.Render()
}
