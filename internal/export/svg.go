package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/viz"
)

var ErrNoSamples = errors.New("export: track has fewer than two samples")

// Palette colors paths by body ID, wrapping around.
var Palette = []string{"#ffd700", "#00ffff", "#ff00ff", "#00ff88", "#ff8800", "#88aaff", "#ff4466", "#cccccc"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.Pixels()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds is the padded XZ rectangle covering a track.
type bounds struct {
	minX, minZ, span float64
}

func trackBounds(track *analysis.Track) bounds {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, frame := range track.Positions {
		for _, p := range frame {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
		}
	}

	// A square viewport keeps circular orbits circular.
	span := math.Max(maxX-minX, maxZ-minZ)
	if span == 0 {
		span = 1
	}
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	span *= 1.2
	return bounds{minX: cx - span/2, minZ: cz - span/2, span: span}
}

// OrbitsToSVG draws every body's path in the orbital (XZ) plane, viewed from
// above, with a dot at its final position.
func OrbitsToSVG(w io.Writer, track *analysis.Track, size int) error {
	if track.Len() < 2 {
		return ErrNoSamples
	}
	b := trackBounds(track)
	px := func(x float64) float64 { return (x - b.minX) / b.span * float64(size) }
	pz := func(z float64) float64 { return (z - b.minZ) / b.span * float64(size) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	last := track.Positions[track.Len()-1]
	for id := 0; id < track.Bodies(); id++ {
		color := Palette[id%len(Palette)]
		fmt.Fprintf(&sb, `<path id="body-%d" fill="none" stroke="%s" stroke-width="1.5" d="M`, id, color)
		for i, frame := range track.Positions {
			p := frame[id]
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px(p.X), pz(p.Z))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px(p.X), pz(p.Z))
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, px(last[id].X), pz(last[id].Z), color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
