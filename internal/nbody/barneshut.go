package nbody

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// maxTreeDepth bounds subdivision so coincident bodies end up sharing a
// leaf instead of splitting forever.
const maxTreeDepth = 32

// quadtree is a Barnes-Hut node. Leaves hold body indices; every node
// carries the total mass and mass-weighted centre of the bodies below it.
type quadtree struct {
	bounds   r2.Box
	depth    int
	bodies   []int
	children [4]*quadtree
	split    bool

	mass float64
	com  r2.Vec
}

func newQuadtree(bounds r2.Box, depth int) *quadtree {
	return &quadtree{bounds: bounds, depth: depth}
}

func (q *quadtree) quadrant(p r2.Vec) int {
	c := q.bounds.Center()
	i := 0
	if p.X >= c.X {
		i |= 1
	}
	if p.Y >= c.Y {
		i |= 2
	}
	return i
}

func (q *quadtree) child(i int) *quadtree {
	if q.children[i] == nil {
		b := q.bounds
		c := b.Center()
		if i&1 == 0 {
			b.Max.X = c.X
		} else {
			b.Min.X = c.X
		}
		if i&2 == 0 {
			b.Max.Y = c.Y
		} else {
			b.Min.Y = c.Y
		}
		q.children[i] = newQuadtree(b, q.depth+1)
	}
	return q.children[i]
}

func (q *quadtree) insert(s *System, i int) {
	if q.split {
		q.child(q.quadrant(s.pos(i))).insert(s, i)
		return
	}
	if len(q.bodies) == 0 || q.depth >= maxTreeDepth {
		q.bodies = append(q.bodies, i)
		return
	}

	q.split = true
	held := q.bodies
	q.bodies = nil
	for _, j := range held {
		q.child(q.quadrant(s.pos(j))).insert(s, j)
	}
	q.child(q.quadrant(s.pos(i))).insert(s, i)
}

// summarize fills in mass and centre of mass bottom-up.
func (q *quadtree) summarize(s *System) {
	var wx, wy float64
	if q.split {
		for _, c := range q.children {
			if c == nil {
				continue
			}
			c.summarize(s)
			q.mass += c.mass
			wx += c.mass * c.com.X
			wy += c.mass * c.com.Y
		}
	} else {
		for _, j := range q.bodies {
			m := s.masses[j]
			q.mass += m
			wx += m * s.px[j]
			wy += m * s.py[j]
		}
	}
	if q.mass != 0 {
		q.com = r2.Vec{X: wx / q.mass, Y: wy / q.mass}
	}
}

// accelerationOn sums the pull of this node on body i. A node is used as a
// point mass when it does not contain the body and its width over the
// distance to its centre of mass is below theta.
func (q *quadtree) accelerationOn(s *System, i int, p r2.Vec, theta, eps2 float64) r2.Vec {
	if q.mass == 0 {
		return r2.Vec{}
	}
	if !q.split {
		var a r2.Vec
		for _, j := range q.bodies {
			if j == i {
				continue
			}
			a = r2.Add(a, softenedPull(s.masses[j], r2.Sub(s.pos(j), p), eps2))
		}
		return a
	}

	size := q.bounds.Size()
	width := (size.X + size.Y) / 2
	r := r2.Sub(q.com, p)
	if !q.encloses(p) && width < theta*r2.Norm(r) {
		return softenedPull(q.mass, r, eps2)
	}

	var a r2.Vec
	for _, c := range q.children {
		if c != nil {
			a = r2.Add(a, c.accelerationOn(s, i, p, theta, eps2))
		}
	}
	return a
}

// encloses reports whether p lies inside or on the node bounds. Unlike
// r2.Box.Contains it treats zero-area bounds like any other.
func (q *quadtree) encloses(p r2.Vec) bool {
	b := q.bounds
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// softenedPull is the acceleration towards mass m displaced by r.
func softenedPull(m float64, r r2.Vec, eps2 float64) r2.Vec {
	d2 := r2.Norm2(r) + eps2
	return r2.Scale(m/(d2*math.Sqrt(d2)), r)
}

func (s *System) pos(i int) r2.Vec { return r2.Vec{X: s.px[i], Y: s.py[i]} }

func (s *System) treeAccelerations() error {
	n := len(s.masses)
	if n == 0 {
		return nil
	}

	bounds := r2.Box{Min: s.pos(0), Max: s.pos(0)}
	for i := 0; i < n; i++ {
		p := s.pos(i)
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: body %d at %v", dynamo.ErrInvalidState, i, p)
		}
		bounds.Min.X = math.Min(bounds.Min.X, p.X)
		bounds.Min.Y = math.Min(bounds.Min.Y, p.Y)
		bounds.Max.X = math.Max(bounds.Max.X, p.X)
		bounds.Max.Y = math.Max(bounds.Max.Y, p.Y)
	}

	root := newQuadtree(bounds, 0)
	for i := 0; i < n; i++ {
		root.insert(s, i)
	}
	root.summarize(s)

	eps2 := s.softening * s.softening
	for i := 0; i < n; i++ {
		a := root.accelerationOn(s, i, s.pos(i), s.theta, eps2)
		s.ax[i], s.ay[i] = a.X, a.Y
	}
	return nil
}
