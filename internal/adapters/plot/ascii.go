// Package plot renders clustering results as terminal grids and PNG scatter plots.
package plot

import (
	"bufio"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
)

// Grid geometry.
const (
	Rows     = 50
	Columns  = 50
	dashStep = 10
)

// Symbols used for clusters, by index. Indices past the end wrap around.
const Symbols = "o+#*x@%&"

// pointSymbol is the default symbol for bare points.
const pointSymbol = 'o'

type cell struct {
	point  model.Point
	symbol byte
	set    bool
}

// Grid is a fixed 50x50 character plot. A point lands in row floor(X) and
// column floor(Y). Each cell holds at most one point; a later point
// overwrites an earlier one in the same cell.
type Grid struct {
	cells   [Rows][Columns]cell
	dropped int
}

// Empty returns a grid with no points.
func Empty() *Grid {
	return &Grid{}
}

// FromClusters plots every cluster's points with the symbol for its index.
func FromClusters(clusters []*cluster.Cluster) *Grid {
	g := Empty()
	for i, c := range clusters {
		sym := SymbolFor(i)
		for p := range c.Points() {
			g.set(p, sym)
		}
	}
	return g
}

// FromPoints plots points with the default symbol.
func FromPoints(points []model.Point) *Grid {
	g := Empty()
	for _, p := range points {
		g.set(p, pointSymbol)
	}
	return g
}

// Random plots n points drawn uniformly over the grid.
func Random(rng *rand.Rand, n int) *Grid {
	g := Empty()
	for range n {
		g.set(model.RandomPoint(rng, Rows, Columns), pointSymbol)
	}
	return g
}

// SymbolFor returns the plot symbol for the cluster at index i.
func SymbolFor(i int) byte {
	if i < 0 {
		i = -i
	}
	return Symbols[i%len(Symbols)]
}

func (g *Grid) set(p model.Point, symbol byte) {
	row, col := math.Floor(p.X), math.Floor(p.Y)
	if !(row >= 0 && row < Rows && col >= 0 && col < Columns) {
		g.dropped++
		return
	}
	g.cells[int(row)][int(col)] = cell{point: p, symbol: symbol, set: true}
}

// Dropped counts points that fell outside the grid.
func (g *Grid) Dropped() int {
	return g.dropped
}

// Points returns the plotted points in row-major order. Points that were
// overwritten or dropped are not included.
func (g *Grid) Points() []model.Point {
	var out []model.Point
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].set {
				out = append(out, g.cells[r][c].point)
			}
		}
	}
	return out
}

// WriteTo renders the grid followed by a closing dash row.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	for r := range Rows {
		writeRow(bw, r, &g.cells[r])
	}
	writeRow(bw, Rows, nil)
	err := bw.Flush()
	return cw.n, err
}

func (g *Grid) String() string {
	var sb strings.Builder
	_, _ = g.WriteTo(&sb)
	return sb.String()
}

// writeRow renders one row. A nil row renders the closing dash row.
func writeRow(w *bufio.Writer, number int, row *[Columns]cell) {
	if number < 10 {
		_ = w.WriteByte(' ')
	}
	_, _ = w.WriteString(strconv.Itoa(number))
	_ = w.WriteByte(' ')
	for col := range Columns {
		switch {
		case row != nil && row[col].set:
			_ = w.WriteByte(row[col].symbol)
		case number%dashStep == 0 || col%dashStep == 0:
			_ = w.WriteByte('.')
		default:
			_ = w.WriteByte(' ')
		}
		_, _ = w.WriteString("  ")
	}
	_, _ = w.WriteString(".\n")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
