package viz

import (
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/orbit"
)

type Vec3 struct {
	X, Y, Z float64
}

func fromWorld(v orbit.Vec3) Vec3 { return Vec3{v.X, v.Y, v.Z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// fitMargin is the view-space half extent a fitted scene occupies.
const fitMargin = 1.4

// Camera manages 3D projection to a 2D plane. World coordinates are divided
// by Unit before rotation so scenes of any size can be fitted.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance, Near   float64
	Unit             float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1.0, Distance: 5, Near: 0.1, Unit: 1}
}

// Apply orients the camera with a view preset.
func (c *Camera) Apply(v config.View) {
	c.RotX, c.RotY, c.RotZ = v.RotX, v.RotY, 0
	if v.Zoom > 0 {
		c.Zoom = v.Zoom
	}
}

// Fit scales the camera so a sphere of the given world radius fills the view.
func (c *Camera) Fit(extent float64) {
	if extent > 0 && !math.IsInf(extent, 0) {
		c.Unit = extent / fitMargin
	}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// perspective returns the rotated view-space point and its pixel scale.
func (c *Camera) perspective(p Vec3, sw, sh int) (Vec3, float64, bool) {
	rot := c.RotatePoint(p.Scale(1 / c.Unit)).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return rot, 0, false
	}
	minDim := math.Min(float64(sw), float64(sh))
	return rot, c.Distance / (c.Distance - rot.Z) * minDim / 3.0, true
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot, scale, ok := c.perspective(p, sw, sh)
	if !ok {
		return 0, 0, 0, false
	}
	sx := int(math.Round(rot.X*scale)) + sw/2
	sy := int(math.Round(-rot.Y*scale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// PixelRadius returns the on-screen radius of a sphere of world radius r at p.
func (c *Camera) PixelRadius(p Vec3, r float64, sw, sh int) int {
	_, scale, ok := c.perspective(p, sw, sh)
	if !ok {
		return 0
	}
	return int(math.Round(r / c.Unit * c.Zoom * scale))
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()            { w.Edges = w.Edges[:0] }

// AddRing appends a circle of radius r around center in the orbital (XZ) plane.
func (w *Wireframe) AddRing(center Vec3, r float64, segments int) {
	if r <= 0 || segments < 3 {
		return
	}
	prev := center.Add(Vec3{X: r})
	for i := 1; i <= segments; i++ {
		a := float64(i) * 2 * math.Pi / float64(segments)
		next := center.Add(Vec3{X: r * math.Cos(a), Z: -r * math.Sin(a)})
		w.AddEdge(prev, next)
		prev = next
	}
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Pixels()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 && v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}
