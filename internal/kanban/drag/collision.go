package drag

import (
	"cmp"
	"math"
	"slices"
)

// Point is a pointer position in host coordinates
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned region in host coordinates
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) right() float64  { return r.X + r.Width }
func (r Rect) bottom() float64 { return r.Y + r.Height }
func (r Rect) area() float64   { return r.Width * r.Height }

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.right() && p.Y >= r.Y && p.Y <= r.bottom()
}

// Translate returns r shifted by dx, dy
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.right(), r.Y},
		{r.X, r.bottom()},
		{r.right(), r.bottom()},
	}
}

// Droppable is a region that can receive a drop
type Droppable struct {
	ID   string
	Ref  Ref
	Rect Rect
}

// Collision is a droppable ranked by one of the detection strategies
type Collision struct {
	Droppable
	Value float64
}

// Detect ranks the droppables under a drag. The dragged item itself is never a
// candidate. Regions containing the pointer win; failing that, regions that
// overlap the dragged rect, by overlap ratio; failing that, every region by
// closest corners. The first collision is the hover target.
func Detect(pointer Point, active Droppable, droppables []Droppable) []Collision {
	candidates := make([]Droppable, 0, len(droppables))
	for _, d := range droppables {
		if d.ID != active.ID {
			candidates = append(candidates, d)
		}
	}

	if hits := pointerWithin(pointer, candidates); len(hits) > 0 {
		return hits
	}
	if hits := rectIntersection(active.Rect, candidates); len(hits) > 0 {
		return hits
	}
	return closestCorners(active.Rect, candidates)
}

func pointerWithin(pointer Point, candidates []Droppable) []Collision {
	var out []Collision
	for _, d := range candidates {
		if !d.Rect.Contains(pointer) {
			continue
		}
		total := 0.0
		for _, c := range d.Rect.corners() {
			total += distance(pointer, c)
		}
		out = append(out, Collision{Droppable: d, Value: total / 4})
	}
	sortAsc(out)
	return out
}

func rectIntersection(active Rect, candidates []Droppable) []Collision {
	var out []Collision
	for _, d := range candidates {
		if ratio := intersectionRatio(active, d.Rect); ratio > 0 {
			out = append(out, Collision{Droppable: d, Value: ratio})
		}
	}
	slices.SortStableFunc(out, func(a, b Collision) int { return cmp.Compare(b.Value, a.Value) })
	return out
}

func closestCorners(active Rect, candidates []Droppable) []Collision {
	ac := active.corners()
	out := make([]Collision, 0, len(candidates))
	for _, d := range candidates {
		dc := d.Rect.corners()
		total := 0.0
		for i := range ac {
			total += distance(ac[i], dc[i])
		}
		out = append(out, Collision{Droppable: d, Value: total / 4})
	}
	sortAsc(out)
	return out
}

func intersectionRatio(a, b Rect) float64 {
	left := math.Max(a.X, b.X)
	top := math.Max(a.Y, b.Y)
	right := math.Min(a.right(), b.right())
	bottom := math.Min(a.bottom(), b.bottom())
	if left >= right || top >= bottom {
		return 0
	}
	overlap := (right - left) * (bottom - top)
	return overlap / (a.area() + b.area() - overlap)
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func sortAsc(c []Collision) {
	slices.SortStableFunc(c, func(a, b Collision) int { return cmp.Compare(a.Value, b.Value) })
}
