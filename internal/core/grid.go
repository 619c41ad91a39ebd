package core

// BucketGrid is a uniform spatial hash over a logical area. Buckets store
// indices into a caller-owned slice so the grid never holds entity pointers.
type BucketGrid struct {
	W, H int
	cell float64
	data [][]int32
}

// NewBucketGrid allocates a grid covering w×h logical units with the given cell size.
func NewBucketGrid(w, h, cell float64) *BucketGrid {
	g := &BucketGrid{}
	g.Reset(w, h, cell)
	return g
}

// Reset resizes the grid and clears every bucket.
func (g *BucketGrid) Reset(w, h, cell float64) {
	if cell <= 0 {
		cell = 64
	}
	cw := int(w/cell) + 1
	ch := int(h/cell) + 1
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	g.cell = cell
	if cw*ch != len(g.data) {
		g.data = make([][]int32, cw*ch)
	}
	g.W, g.H = cw, ch
	g.Clear()
}

// Cell returns the bucket edge length.
func (g *BucketGrid) Cell() float64 { return g.cell }

// Index returns the linear bucket index for bucket coordinates (x, y).
func (g *BucketGrid) Index(x, y int) int { return y*g.W + x }

// Clear empties every bucket while keeping allocations.
func (g *BucketGrid) Clear() {
	for i := range g.data {
		g.data[i] = g.data[i][:0]
	}
}

func (g *BucketGrid) coords(x, y float64) (int, int) {
	cx := int(x / g.cell)
	cy := int(y / g.cell)
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	if cx >= g.W {
		cx = g.W - 1
	}
	if cy >= g.H {
		cy = g.H - 1
	}
	return cx, cy
}

// Insert records idx at logical position (x, y). Positions outside the area
// are clamped into the border buckets.
func (g *BucketGrid) Insert(idx int, x, y float64) {
	cx, cy := g.coords(x, y)
	i := g.Index(cx, cy)
	g.data[i] = append(g.data[i], int32(idx))
}

// Near calls fn for every index in the buckets overlapping the square of
// half-size radius around (x, y). Returning false stops the walk.
func (g *BucketGrid) Near(x, y, radius float64, fn func(idx int) bool) {
	x0, y0 := g.coords(x-radius, y-radius)
	x1, y1 := g.coords(x+radius, y+radius)
	for by := y0; by <= y1; by++ {
		for bx := x0; bx <= x1; bx++ {
			for _, idx := range g.data[g.Index(bx, by)] {
				if !fn(int(idx)) {
					return
				}
			}
		}
	}
}
