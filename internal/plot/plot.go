// Package plot renders numeric series as braille text plots for terminals.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series is a named run of values drawn left to right.
type Series struct {
	Name   string
	Values []float64
}

// Options controls plot layout. Zero values pick defaults.
type Options struct {
	Title  string
	Width  int // plot columns, excluding the axis
	Height int // plot rows
	Color  bool
}

const (
	defaultHeight       = 12
	minWidth            = 10
	axisLabelWidth      = 10
	axisSeparator       = " ┤"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var palette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// Render writes the series to w on a shared vertical scale. Empty series are
// skipped; nothing is written when no series has values.
func Render(w io.Writer, series []Series, opts Options) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}

	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}
	width := opts.Width
	if width <= 0 {
		width = WidthFor(terminalWidth(w))
	}
	if width < minWidth {
		width = minWidth
	}

	lo, hi := bounds(series)
	if math.Abs(hi-lo) < 1e-12 {
		lo--
		hi++
	}

	dotRows := height * 4
	grids := make([][][]uint8, len(series))
	for si, s := range series {
		grid := newGrid(height, width)
		mins, maxs := envelope(s.Values, width)
		prev := -1
		for x := range mins {
			top := toRow(maxs[x], lo, hi, dotRows)
			bottom := toRow(mins[x], lo, hi, dotRows)
			if prev >= 0 {
				top = min(top, prev)
				bottom = max(bottom, prev)
			}
			for y := top; y <= bottom; y++ {
				setDot(grid, 2*x, y)
			}
			prev = toRow((mins[x]+maxs[x])/2, lo, hi, dotRows)
		}
		grids[si] = grid
	}

	color := useColor(w, opts.Color)
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, opts.Title); err != nil {
			return err
		}
	}
	labels := axisLabels(lo, hi, height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := compose(grids, x, y)
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				row.WriteString(palette[owner%len(palette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(series, color))
	return err
}

// WidthFor returns the plot columns that fit in a terminal of totalWidth.
func WidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minWidth)
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// bounds ignores NaN and infinite values.
func bounds(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// envelope maps values onto cols columns keeping each column's extremes, so
// oscillations faster than the column pitch still fill their full swing.
func envelope(values []float64, cols int) ([]float64, []float64) {
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	n := len(values)
	for c := 0; c < cols; c++ {
		start := c * n / cols
		end := (c + 1) * n / cols
		if end <= start {
			// Fewer values than columns: hold the nearest sample.
			idx := min(start, n-1)
			mins[c], maxs[c] = values[idx], values[idx]
			continue
		}
		lo, hi := values[start], values[start]
		for _, v := range values[start+1 : end] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		mins[c], maxs[c] = lo, hi
	}
	return mins, maxs
}

func toRow(v, lo, hi float64, rows int) int {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return rows - 1
	case math.IsInf(v, 1):
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = formatTick(hi)
	if height > 1 {
		labels[height-1] = formatTick(lo)
	}
	if height > 2 {
		labels[height/2] = formatTick((lo + hi) / 2)
	}
	return labels
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if color {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Repeat(" ", axisLabelWidth) + "  " + strings.Join(parts, "  ")
}

func newGrid(height, width int) [][]uint8 {
	grid := make([][]uint8, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
	}
	return grid
}

// compose ORs every series' dots for one cell. owner is the first series
// with a dot there, or -1.
func compose(grids [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, grid := range grids {
		m := grid[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

// setDot marks the braille dot at (x, y) in 2x4 dot coordinates.
func setDot(grid [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= dotMask(x%2, y%4)
}

func dotMask(col, row int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if col == 0 {
		return left[row]
	}
	return right[row]
}
