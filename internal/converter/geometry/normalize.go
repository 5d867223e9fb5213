package geometry

import (
	"errors"
	"math"

	"gem-bridge/internal/converter/models"
)

// ============================================================
// Geometry Normalizer
// ============================================================

const (
	DistTolerance   = 1e-6 // merge radius for duplicate adjacent vertices
	PlanarTolerance = 1e-3 // max vertex distance from the best-fit plane, meters
	horizontalNZ    = 0.999
)

// ErrDegenerate marks a loop that collapses below 3 vertices after cleanup.
var ErrDegenerate = errors.New("degenerate loop")

// Result is a canonical polygon loop: no duplicate or collinear vertices,
// fixed winding, planar within PlanarTolerance.
type Result struct {
	Loop     []models.Point3
	Normal   models.Point3
	Residual float64
	// Projected is set when the input exceeded PlanarTolerance and the
	// vertices were flattened onto the best-fit plane.
	Projected bool
}

// NormalizeLoop cleans an arbitrary closed vertex loop into canonical form.
// It is a pure function: the same input always yields the same output.
func NormalizeLoop(loop []models.Point3) (Result, error) {
	cleaned := dedupeAdjacent(loop)
	cleaned = removeCollinear(cleaned)
	if len(cleaned) < 3 {
		return Result{}, ErrDegenerate
	}

	cleaned = orient(cleaned)
	normal := unitNewell(cleaned)

	centroid := loopCentroid(cleaned)
	residual := planarResidual(cleaned, centroid, normal)
	projected := false
	if residual > PlanarTolerance {
		cleaned = projectLoop(cleaned, centroid, normal)
		projected = true
	}

	return Result{Loop: cleaned, Normal: normal, Residual: residual, Projected: projected}, nil
}

func dedupeAdjacent(loop []models.Point3) []models.Point3 {
	if len(loop) == 0 {
		return nil
	}
	out := make([]models.Point3, 0, len(loop))
	for _, p := range loop {
		if len(out) > 0 && dist(out[len(out)-1], p) < DistTolerance {
			continue
		}
		out = append(out, p)
	}
	// loop is implicitly closed; drop a repeated closing vertex
	for len(out) > 1 && dist(out[0], out[len(out)-1]) < DistTolerance {
		out = out[:len(out)-1]
	}
	return out
}

func removeCollinear(loop []models.Point3) []models.Point3 {
	changed := true
	for changed && len(loop) >= 3 {
		changed = false
		out := make([]models.Point3, 0, len(loop))
		n := len(loop)
		for i := 0; i < n; i++ {
			a := loop[(i+n-1)%n]
			b := loop[i]
			c := loop[(i+1)%n]
			if perpDistance(b, a, c) < DistTolerance {
				changed = true
				continue
			}
			out = append(out, b)
		}
		loop = out
	}
	return loop
}

// orient reverses the loop unless the first non-zero component of its Newell
// normal, checked in z, y, x order, is positive. The convention is arbitrary
// but fixed, which is all the writer and reader need to agree on.
func orient(loop []models.Point3) []models.Point3 {
	n := newell(loop)
	for _, c := range []float64{n.Z, n.Y, n.X} {
		if math.Abs(c) < 1e-12 {
			continue
		}
		if c < 0 {
			return reverse(loop)
		}
		return loop
	}
	return loop
}

// PlaneBasis returns the shared 2D projection frame for opening coordinates
// on a face. Horizontal faces anchor at the upper-right corner with reversed
// axes; every other face anchors at the lower-left corner with an in-plane
// horizontal x axis. Writer and reader both use this frame, which is what
// makes opening round-trips exact.
func PlaneBasis(loop []models.Point3) (origin, xAxis, yAxis models.Point3) {
	n := unitNewell(loop)
	if math.Abs(n.Z) > horizontalNZ {
		xAxis = models.Point3{X: -1}
		yAxis = models.Point3{Y: -1}
		origin = cornerMax(loop)
		return origin, xAxis, yAxis
	}
	zAxis := models.Point3{Z: 1}
	xAxis = normalize(cross(zAxis, n))
	yAxis = cross(n, xAxis)
	origin = cornerMin(loop, xAxis, yAxis)
	return origin, xAxis, yAxis
}

// ProjectToBasis maps a 3D point to 2D coordinates in the given frame.
func ProjectToBasis(p, origin, xAxis, yAxis models.Point3) models.Point2 {
	d := sub(p, origin)
	return models.Point2{X: dot(d, xAxis), Y: dot(d, yAxis)}
}

// PointFromBasis maps 2D frame coordinates back to a 3D point.
func PointFromBasis(p models.Point2, origin, xAxis, yAxis models.Point3) models.Point3 {
	return add(origin, add(scale(xAxis, p.X), scale(yAxis, p.Y)))
}

// cornerMax picks the vertex with the greatest x, breaking ties by y then z.
// The origin is always an actual loop vertex, not a bounding-rectangle
// corner; for non-rectangular loops the two differ by a constant offset.
func cornerMax(loop []models.Point3) models.Point3 {
	best := loop[0]
	for _, p := range loop[1:] {
		if p.X > best.X ||
			(p.X == best.X && p.Y > best.Y) ||
			(p.X == best.X && p.Y == best.Y && p.Z > best.Z) {
			best = p
		}
	}
	return best
}

// cornerMin picks the vertex lowest along the y axis, then along x.
func cornerMin(loop []models.Point3, xAxis, yAxis models.Point3) models.Point3 {
	best := loop[0]
	bestX, bestY := dot(best, xAxis), dot(best, yAxis)
	for _, p := range loop[1:] {
		px, py := dot(p, xAxis), dot(p, yAxis)
		if py < bestY-DistTolerance || (math.Abs(py-bestY) <= DistTolerance && px < bestX) {
			best, bestX, bestY = p, px, py
		}
	}
	return best
}

// ============================================================
// Plane fitting
// ============================================================

func loopCentroid(loop []models.Point3) models.Point3 {
	var c models.Point3
	for _, p := range loop {
		c = add(c, p)
	}
	return scale(c, 1/float64(len(loop)))
}

func planarResidual(loop []models.Point3, centroid, normal models.Point3) float64 {
	max := 0.0
	for _, p := range loop {
		d := math.Abs(dot(sub(p, centroid), normal))
		if d > max {
			max = d
		}
	}
	return max
}

func projectLoop(loop []models.Point3, centroid, normal models.Point3) []models.Point3 {
	out := make([]models.Point3, len(loop))
	for i, p := range loop {
		out[i] = sub(p, scale(normal, dot(sub(p, centroid), normal)))
	}
	return out
}

// newell computes the polygon normal with Newell's method. Direction encodes
// the winding; magnitude is twice the polygon area.
func newell(loop []models.Point3) models.Point3 {
	var n models.Point3
	for i, a := range loop {
		b := loop[(i+1)%len(loop)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func unitNewell(loop []models.Point3) models.Point3 {
	return normalize(newell(loop))
}

// ============================================================
// Vector helpers
// ============================================================

func add(a, b models.Point3) models.Point3 {
	return models.Point3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func sub(a, b models.Point3) models.Point3 {
	return models.Point3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scale(a models.Point3, s float64) models.Point3 {
	return models.Point3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

func dot(a, b models.Point3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func cross(a, b models.Point3) models.Point3 {
	return models.Point3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func length(a models.Point3) float64 {
	return math.Sqrt(dot(a, a))
}

func normalize(a models.Point3) models.Point3 {
	l := length(a)
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}

func dist(a, b models.Point3) float64 {
	return length(sub(a, b))
}

// perpDistance is the distance from p to the line through a and c.
func perpDistance(p, a, c models.Point3) float64 {
	ac := sub(c, a)
	l := length(ac)
	if l < DistTolerance {
		return 0
	}
	return length(cross(ac, sub(p, a))) / l
}

func reverse(loop []models.Point3) []models.Point3 {
	out := make([]models.Point3, len(loop))
	for i, p := range loop {
		out[len(loop)-1-i] = p
	}
	return out
}
