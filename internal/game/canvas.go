package game

import "strings"

// Canvas is a fixed-size rune buffer the world draws into. The TUI styles
// and prints it.
type Canvas struct {
	width, height int
	cells         [][]rune
}

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// Resize reallocates the buffer. Content is discarded.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.cells = make([][]rune, c.height)
	for y := range c.cells {
		c.cells[y] = make([]rune, c.width)
	}
	c.Clear()
}

// Clear fills the canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

// Set places r at (x, y). Out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

// Get returns the rune at (x, y), or a space out of bounds.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x]
}

// Fill fills r's area with ch.
func (c *Canvas) Fill(r Rect, ch rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.Set(x, y, ch)
		}
	}
}

// HLine draws a horizontal run of ch.
func (c *Canvas) HLine(x, y, length int, ch rune) {
	for i := 0; i < length; i++ {
		c.Set(x+i, y, ch)
	}
}

// Text writes s starting at (x, y), clipped at the edges.
func (c *Canvas) Text(x, y int, s string) {
	i := 0
	for _, r := range s {
		c.Set(x+i, y, r)
		i++
	}
}

// String joins the rows with newlines.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)
	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(c.cells[y]))
	}
	return sb.String()
}
