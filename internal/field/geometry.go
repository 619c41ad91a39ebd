package field

import (
	"errors"
	"fmt"
	"math"

	"ionfield/internal/core"
)

// Shape tags a molecular structure.
type Shape uint8

const (
	ShapeHelix Shape = iota
	ShapeLattice
	ShapePolyatomic
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeHelix:
		return "helix"
	case ShapeLattice:
		return "lattice"
	case ShapePolyatomic:
		return "polyatomic"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Next cycles helix → lattice → polyatomic → helix.
func (s Shape) Next() Shape { return (s + 1) % shapeCount }

// Point3 is a point in a structure's local frame.
type Point3 struct {
	X, Y, Z float64
}

// LinkKind selects the stroke used for a link.
type LinkKind uint8

const (
	LinkBackbone LinkKind = iota
	LinkRung
	LinkEdge
	LinkSingle
	LinkDouble
)

// Link joins two points by index.
type Link struct {
	From, To int
	Kind     LinkKind
}

// Geometry is the regenerated body of a structure. Shape and geometry always
// change together through NewGeometry.
type Geometry struct {
	Shape  Shape
	Points []Point3
	Links  []Link
	Radii  []float64
}

// GeometrySizes carries the profile-driven dimensions of generated structures.
type GeometrySizes struct {
	HelixPairs  int
	LatticeSize int
}

var (
	errEmptyGeometry = errors.New("geometry has no points")
	errRadii         = errors.New("radii and points differ in length")
)

// Validate checks the structure is internally consistent.
func (g Geometry) Validate() error {
	if len(g.Points) == 0 {
		return errEmptyGeometry
	}
	if len(g.Radii) != len(g.Points) {
		return errRadii
	}
	for i, l := range g.Links {
		if l.From < 0 || l.From >= len(g.Points) || l.To < 0 || l.To >= len(g.Points) {
			return fmt.Errorf("link %d (%d→%d) out of range [0,%d)", i, l.From, l.To, len(g.Points))
		}
		if l.From == l.To {
			return fmt.Errorf("link %d is a self loop", i)
		}
	}
	if g.Shape == ShapeHelix && len(g.Points)%2 != 0 {
		return fmt.Errorf("helix has odd point count %d", len(g.Points))
	}
	return nil
}

// NewGeometry builds the body for shape.
func NewGeometry(shape Shape, sizes GeometrySizes, rng *core.RNG) Geometry {
	switch shape {
	case ShapeLattice:
		return latticeGeometry(sizes.LatticeSize)
	case ShapePolyatomic:
		return polyatomicGeometry(rng)
	default:
		return helixGeometry(sizes.HelixPairs, rng)
	}
}

func helixGeometry(pairs int, rng *core.RNG) Geometry {
	if pairs < 2 {
		pairs = 2
	}
	const (
		length = 90.0
		radius = 14.0
	)
	turns := rng.Range(1.2, 2.2)
	g := Geometry{Shape: ShapeHelix}
	for i := 0; i < pairs; i++ {
		t := float64(i) / float64(pairs-1)
		a := t * turns * 2 * math.Pi
		y := (t - 0.5) * length
		g.Points = append(g.Points,
			Point3{X: math.Cos(a) * radius, Y: y, Z: math.Sin(a) * radius},
			Point3{X: math.Cos(a+math.Pi) * radius, Y: y, Z: math.Sin(a+math.Pi) * radius},
		)
		g.Radii = append(g.Radii, 2.4, 2.4)
		g.Links = append(g.Links, Link{From: 2 * i, To: 2*i + 1, Kind: LinkRung})
		if i > 0 {
			g.Links = append(g.Links,
				Link{From: 2 * (i - 1), To: 2 * i, Kind: LinkBackbone},
				Link{From: 2*(i-1) + 1, To: 2*i + 1, Kind: LinkBackbone},
			)
		}
	}
	return g
}

func latticeGeometry(size int) Geometry {
	if size < 2 {
		size = 2
	}
	const spacing = 18.0
	off := float64(size-1) * spacing / 2
	idx := func(x, y, z int) int { return (z*size+y)*size + x }
	g := Geometry{Shape: ShapeLattice}
	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				g.Points = append(g.Points, Point3{
					X: float64(x)*spacing - off,
					Y: float64(y)*spacing - off,
					Z: float64(z)*spacing - off,
				})
				r := 2.0
				if (x+y+z)%2 == 0 {
					r = 3.0
				}
				g.Radii = append(g.Radii, r)
				here := idx(x, y, z)
				if x > 0 {
					g.Links = append(g.Links, Link{From: idx(x-1, y, z), To: here, Kind: LinkEdge})
				}
				if y > 0 {
					g.Links = append(g.Links, Link{From: idx(x, y-1, z), To: here, Kind: LinkEdge})
				}
				if z > 0 {
					g.Links = append(g.Links, Link{From: idx(x, y, z-1), To: here, Kind: LinkEdge})
				}
			}
		}
	}
	return g
}

func polyatomicGeometry(rng *core.RNG) Geometry {
	ligands := rng.RangeInt(3, 6)
	g := Geometry{Shape: ShapePolyatomic}
	g.Points = append(g.Points, Point3{})
	g.Radii = append(g.Radii, 4.5)
	for i := 0; i < ligands; i++ {
		// Spread ligands on a golden-angle spiral so they never coincide.
		y := 1 - 2*(float64(i)+0.5)/float64(ligands)
		r := math.Sqrt(1 - y*y)
		a := float64(i) * math.Pi * (3 - math.Sqrt(5))
		d := rng.Range(20, 28)
		g.Points = append(g.Points, Point3{X: math.Cos(a) * r * d, Y: y * d, Z: math.Sin(a) * r * d})
		g.Radii = append(g.Radii, rng.Range(2.2, 3.2))
		kind := LinkSingle
		if rng.Chance(0.3) {
			kind = LinkDouble
		}
		g.Links = append(g.Links, Link{From: 0, To: len(g.Points) - 1, Kind: kind})
	}
	// Occasional secondary atom hanging off a ligand.
	if rng.Chance(0.5) {
		parent := 1 + rng.IntN(ligands)
		p := g.Points[parent]
		g.Points = append(g.Points, Point3{X: p.X * 1.5, Y: p.Y * 1.5, Z: p.Z * 1.5})
		g.Radii = append(g.Radii, 1.8)
		g.Links = append(g.Links, Link{From: parent, To: len(g.Points) - 1, Kind: LinkSingle})
	}
	return g
}

// Rotate applies the structure's X, Y and Z rotations to a local point.
func Rotate(p Point3, rx, ry, rz float64) Point3 {
	sx, cx := math.Sincos(rx)
	y := p.Y*cx - p.Z*sx
	z := p.Y*sx + p.Z*cx
	p.Y, p.Z = y, z

	sy, cy := math.Sincos(ry)
	x := p.X*cy + p.Z*sy
	z = -p.X*sy + p.Z*cy
	p.X, p.Z = x, z

	sz, cz := math.Sincos(rz)
	x = p.X*cz - p.Y*sz
	y = p.X*sz + p.Y*cz
	p.X, p.Y = x, y
	return p
}
