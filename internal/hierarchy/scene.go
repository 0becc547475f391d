package hierarchy

import "github.com/san-kum/orrery/internal/body"

// Extension is the only accepted hierarchy file suffix.
const Extension = ".sol"

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Light is the point light placed at the Star, read from the second header line.
type Light struct {
	Color             [3]float64
	Ambient           float64
	Diffuse           float64
	Specular          float64
	LinearAttenuation float64
}

// ColorRGBA returns the light color with full alpha.
func (l Light) ColorRGBA() [4]float64 {
	return [4]float64{l.Color[0], l.Color[1], l.Color[2], 1}
}

// AmbientRGBA returns the ambient intensity as a grey RGBA vector.
func (l Light) AmbientRGBA() [4]float64 { return grey(l.Ambient) }

// DiffuseRGBA returns the diffuse intensity as a grey RGBA vector.
func (l Light) DiffuseRGBA() [4]float64 { return grey(l.Diffuse) }

// SpecularRGBA returns the specular intensity as a grey RGBA vector.
func (l Light) SpecularRGBA() [4]float64 { return grey(l.Specular) }

func grey(v float64) [4]float64 { return [4]float64{v, v, v, 1} }

// Scene is everything a hierarchy file describes. It is immutable once returned
// by [Parse] or [Load] and is handed as a whole to render drivers.
type Scene struct {
	Camera Vec3
	Light  Light
	Tree   *body.Tree
	// Path is the file the scene was loaded from, empty for in-memory input.
	Path string
}
