package libramsey

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ramsey-systems/goramsey/goramsey"
)

// Matrix is a 2-edge-colored complete graph's adjacency matrix: a contiguous
// order×order array of colors, symmetric off the diagonal (the diagonal is
// meaningless and held at Red's zero value).
//
// The extension search loop writes only the new vertex's row and restores
// symmetry with MirrorRow before the matrix is seen by anyone else.
type Matrix struct {
	order int
	cells []goramsey.Color // row-major, order*order
}

func (mx *Matrix) Order() int {
	return mx.order
}

// SetOrder resizes this matrix to order×order and zeroes every cell.
func (mx *Matrix) SetOrder(order int) {
	n := order * order
	if cap(mx.cells) < n {
		mx.cells = make([]goramsey.Color, n)
	} else {
		mx.cells = mx.cells[:n]
		for i := range mx.cells {
			mx.cells[i] = 0
		}
	}
	mx.order = order
}

func (mx *Matrix) At(vi, vj int) goramsey.Color {
	return mx.cells[vi*mx.order+vj]
}

// Set assigns the color of edge (vi,vj), writing both triangle halves.
func (mx *Matrix) Set(vi, vj int, c goramsey.Color) {
	mx.cells[vi*mx.order+vj] = c
	mx.cells[vj*mx.order+vi] = c
}

// SetRowOnly assigns only cell (vi,vj), leaving (vj,vi) stale.
// Callers own the matrix exclusively until a MirrorRow(vi) reconciles it.
func (mx *Matrix) SetRowOnly(vi, vj int, c goramsey.Color) {
	mx.cells[vi*mx.order+vj] = c
}

// MirrorRow copies row vi into column vi, restoring symmetry after SetRowOnly writes.
func (mx *Matrix) MirrorRow(vi int) {
	row := mx.cells[vi*mx.order : (vi+1)*mx.order]
	for vj, c := range row {
		mx.cells[vj*mx.order+vi] = c
	}
}

// Grow returns a new matrix of order+1 with all prior cells preserved at
// their original positions and the new row/column zeroed.
func (mx *Matrix) Grow() Matrix {
	prev := mx.order
	next := Matrix{}
	next.SetOrder(prev + 1)
	for vi := 0; vi < prev; vi++ {
		copy(next.cells[vi*next.order:vi*next.order+prev], mx.cells[vi*prev:(vi+1)*prev])
	}
	return next
}

// CopyFrom deep-copies src into this matrix, reusing the backing array when possible.
func (mx *Matrix) CopyFrom(src *Matrix) {
	if cap(mx.cells) < len(src.cells) {
		mx.cells = make([]goramsey.Color, len(src.cells))
	} else {
		mx.cells = mx.cells[:len(src.cells)]
	}
	copy(mx.cells, src.cells)
	mx.order = src.order
}

// ReadCells fills this matrix (already sized by SetOrder) from a text stream
// containing exactly order² cell characters '0' or '1' in row-major order.
// All other bytes are ignored; any other cell count fails the read.
func (mx *Matrix) ReadCells(r io.Reader) error {
	want := mx.order * mx.order
	got := 0

	var buf [4096]byte
	for {
		n, err := r.Read(buf[:])
		for _, b := range buf[:n] {
			if b != '0' && b != '1' {
				continue
			}
			if got < want {
				mx.cells[got] = goramsey.Color(b - '0')
			}
			got++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "matrix read failed")
		}
	}

	if got != want {
		return errors.Wrapf(goramsey.ErrBadMatrixInput, "expected %d cells, got %d", want, got)
	}
	return nil
}

// WriteCells emits this matrix in the same text form ReadCells consumes:
// order lines of order cell characters, row-major.
func (mx *Matrix) WriteCells(out io.Writer) error {
	line := make([]byte, mx.order+1)
	line[mx.order] = '\n'

	for vi := 0; vi < mx.order; vi++ {
		row := mx.cells[vi*mx.order : (vi+1)*mx.order]
		for vj, c := range row {
			line[vj] = c.Ascii()
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// CountEdges tallies the red and blue edge counts of the upper triangle.
func (mx *Matrix) CountEdges() (reds, blues uint16) {
	for vi := 0; vi < mx.order; vi++ {
		for vj := vi + 1; vj < mx.order; vj++ {
			if mx.At(vi, vj) == goramsey.Red {
				reds++
			} else {
				blues++
			}
		}
	}
	return
}

// IsCirculant returns true if color(i,j) depends only on (i-j) mod order.
func (mx *Matrix) IsCirculant() bool {
	Nv := mx.order
	for d := 1; d < Nv; d++ {
		c0 := mx.At(0, d)
		for vi := 1; vi < Nv; vi++ {
			if mx.At(vi, (vi+d)%Nv) != c0 {
				return false
			}
		}
	}
	return true
}
