package gui

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/orbit"
)

const ringSegments = 96

// fallback colors by depth for bodies whose texture is missing.
var fallback = []rl.Color{
	rl.NewColor(255, 200, 64, 255),
	rl.NewColor(90, 140, 220, 255),
	rl.NewColor(170, 170, 170, 255),
	rl.NewColor(200, 120, 90, 255),
}

// RenderBodies draws the shared unit sphere once per body with that body's
// world matrix.
func (a *App) RenderBodies(frame *orbit.Frame) {
	tree := a.scene.Tree
	starPos := frame.Position(tree.Root())
	camPos := toWorld(a.scene.Camera)

	for id := 0; id < tree.Len() && id < frame.Len(); id++ {
		b := tree.Body(body.ID(id))
		tex := a.texture(b.Texture)

		tint := lightColor(a.scene.Light, 1)
		if b.Kind == body.Planet {
			tint = lightColor(a.scene.Light, shade(a.scene.Light, frame.Position(body.ID(id)), starPos, camPos))
		}
		if tex.ID == 0 {
			tint = modulate(fallback[b.Depth%len(fallback)], tint)
		}

		rl.SetMaterialTexture(a.sphere.Materials, rl.MapDiffuse, tex)
		a.sphere.Transform = toMatrix(frame.Model[id])
		rl.DrawModel(a.sphere, rl.NewVector3(0, 0, 0), 1, tint)
	}
}

// RenderOrbits draws each orbiting body's path around its parent's current center.
func (a *App) RenderOrbits(frame *orbit.Frame) {
	tree := a.scene.Tree
	tree.Walk(func(id body.ID, b body.Body) bool {
		if !b.Orbits() {
			return true
		}
		pts := ring(frame.Position(b.Parent), b.OrbitalDistance, ringSegments)
		for i := 1; i < len(pts); i++ {
			rl.DrawLine3D(pts[i-1], pts[i], ColOrbit)
		}
		return true
	})
}

// ring returns segments+1 points on a circle in the XZ plane, closing on the first.
func ring(center orbit.Vec3, r float64, segments int) []rl.Vector3 {
	c := rl.NewVector3(float32(center.X), float32(center.Y), float32(center.Z))
	rad := float32(r)
	pts := make([]rl.Vector3, segments+1)
	for i := 0; i <= segments; i++ {
		a := float32(i) * 2 * math32.Pi / float32(segments)
		s, co := math32.Sincos(a)
		pts[i] = rl.NewVector3(c.X+rad*co, c.Y, c.Z-rad*s)
	}
	return pts
}

// shade returns the light intensity seen on a planet: ambient plus diffuse
// scaled by the lit fraction of the visible hemisphere, attenuated by
// distance from the star.
func shade(l hierarchy.Light, pos, star, cam orbit.Vec3) float64 {
	toStar := star.Sub(pos)
	toCam := cam.Sub(pos)
	ds, dc := toStar.Length(), toCam.Length()

	lit := 1.0
	if ds > 0 && dc > 0 {
		cos := (toStar.X*toCam.X + toStar.Y*toCam.Y + toStar.Z*toCam.Z) / (ds * dc)
		lit = (1 + cos) / 2
	}
	atten := 1 / (1 + l.LinearAttenuation*ds)
	return l.Ambient + l.Diffuse*lit*atten
}

func lightColor(l hierarchy.Light, intensity float64) rl.Color {
	return rl.NewColor(channel(l.Color[0]*intensity), channel(l.Color[1]*intensity), channel(l.Color[2]*intensity), 255)
}

func channel(v float64) uint8 {
	return uint8(math32.Round(math32.Min(math32.Max(float32(v), 0), 1) * 255))
}

func modulate(c, tint rl.Color) rl.Color {
	mul := func(x, y uint8) uint8 { return uint8(uint16(x) * uint16(y) / 255) }
	return rl.NewColor(mul(c.R, tint.R), mul(c.G, tint.G), mul(c.B, tint.B), c.A)
}

func toWorld(v hierarchy.Vec3) orbit.Vec3 { return orbit.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func toVector3(v hierarchy.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// toMatrix converts a column-major transform to raylib's layout. raylib
// names elements column by column: M0..M3 is the first column.
func toMatrix(m orbit.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M4: float32(m[4]), M8: float32(m[8]), M12: float32(m[12]),
		M1: float32(m[1]), M5: float32(m[5]), M9: float32(m[9]), M13: float32(m[13]),
		M2: float32(m[2]), M6: float32(m[6]), M10: float32(m[10]), M14: float32(m[14]),
		M3: float32(m[3]), M7: float32(m[7]), M11: float32(m[11]), M15: float32(m[15]),
	}
}
