package fluid

import "github.com/san-kum/physkern/internal/kernel"

// Grid maps (x, y) cell coordinates to flat indices y*N + x.
type Grid struct {
	N int
}

func (g Grid) Cells() int { return g.N * g.N }

func (g Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.N && y < g.N
}

// Index returns the flat index of (x, y) or ErrOutOfRange.
func (g Grid) Index(x, y int) (int, error) {
	if !g.Contains(x, y) {
		return 0, kernel.ErrOutOfRange
	}
	return y*g.N + x, nil
}

// Coords is the inverse of Index.
func (g Grid) Coords(i int) (x, y int) {
	return i % g.N, i / g.N
}

func (g Grid) cellError(op string, x, y int) error {
	return &kernel.CellError{Op: op, X: x, Y: y, N: g.N, Wrapped: kernel.ErrOutOfRange}
}
