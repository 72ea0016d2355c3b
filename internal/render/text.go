package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Machine is the query surface the text renderer polls.
type Machine interface {
	Slots() int
	Remaining() int
	InFlightX(y int) int
	Counts() []int
	Average() float64
}

// noBead mirrors galton.NoBead without importing the engine.
const noBead = -1

// Text draws one ASCII frame of the machine: a peg triangle with falling
// beads marked 'o', then one line per slot count.
func Text(w io.Writer, m Machine) error {
	bw := bufio.NewWriter(w)
	slots := m.Slots()
	width := 2*slots + 1

	fmt.Fprintf(bw, "waiting: %d\n", m.Remaining())
	row := make([]byte, width)
	for y := 0; y < slots; y++ {
		for i := range row {
			row[i] = ' '
		}
		for x := 0; x <= y; x++ {
			row[slots-y+2*x] = '.'
		}
		if bx := m.InFlightX(y); bx != noBead {
			row[slots-y+2*bx] = 'o'
		}
		fmt.Fprintln(bw, strings.TrimRight(string(row), " "))
	}
	fmt.Fprintln(bw, strings.Repeat("-", width))
	for i, c := range m.Counts() {
		fmt.Fprintf(bw, "%2d | %s %d\n", i, strings.Repeat("#", min(c, 60)), c)
	}
	fmt.Fprintf(bw, "average: %.2f\n", m.Average())
	return bw.Flush()
}
