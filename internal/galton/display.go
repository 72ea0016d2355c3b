package galton

import "image/color"

// Cell values written into the board's display buffer.
const (
	CellEmpty uint8 = iota
	CellPeg
	CellBead
	CellSlot
	CellFloor
)

// histogramRows is the height of the slot histogram per slot.
const histogramRows = 4

var boardPalette = []color.RGBA{
	CellEmpty: {R: 16, G: 16, B: 24, A: 255},
	CellPeg:   {R: 150, G: 150, B: 165, A: 255},
	CellBead:  {R: 230, G: 170, B: 60, A: 255},
	CellSlot:  {R: 200, G: 120, B: 40, A: 255},
	CellFloor: {R: 90, G: 90, B: 100, A: 255},
}

// Palette exposes the color palette used for rendering the board.
func (b *Board) Palette() []color.RGBA {
	return boardPalette
}

func boardWidth(slots int) int  { return 2*slots + 1 }
func boardHeight(slots int) int { return 2*slots + histogramRows*slots + 1 }

// pegColumn maps logical peg coordinates to a display column. Row y is
// centred, so the last row lines up with the slot columns 2*i+1.
func pegColumn(slots, x, y int) int {
	return slots - y + 2*x
}

func (b *Board) rebuildDisplay() {
	g := b.grid
	g.Clear()
	slots := b.m.Slots()

	for y := 0; y < slots; y++ {
		for x := 0; x <= y; x++ {
			g.Set(pegColumn(slots, x, y), 2*y+1, CellPeg)
		}
		if bx := b.m.InFlightX(y); bx != NoBead {
			g.Set(pegColumn(slots, bx, y), 2*y, CellBead)
		}
	}

	top := 2 * slots
	bars := histogramRows * slots
	tallest := 0
	for _, c := range b.m.Counts() {
		tallest = max(tallest, c)
	}
	for i, c := range b.m.Counts() {
		if c == 0 {
			continue
		}
		h := max(c*bars/tallest, 1)
		for r := 0; r < h; r++ {
			g.Set(2*i+1, top+bars-1-r, CellSlot)
		}
	}
	for x := 0; x < g.W; x++ {
		g.Set(x, g.H-1, CellFloor)
	}
}
