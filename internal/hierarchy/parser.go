package hierarchy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/orrery/internal/body"
)

const (
	delimiter = "\t"

	cameraFields = 3
	lightFields  = 7
	starFields   = 3
	planetFields = 6

	// headerLines precede the first body record.
	headerLines = 2
)

// Parse builds a scene from the lines of a hierarchy file.
//
// Lines 1 and 2 are the camera and light headers. Every later line is a
// body record prefixed by one tab per level of depth; its parent is the
// nearest preceding record one level shallower. Blank lines are skipped.
// Parse returns either a complete scene or a *FormatError, never both.
func Parse(lines []string) (*Scene, error) {
	if len(lines) < 1 {
		return nil, headerError(1, "camera", "missing camera line", nil)
	}
	if len(lines) < 2 {
		return nil, headerError(2, "light", "missing light line", nil)
	}

	camera, err := parseCamera(lines[0])
	if err != nil {
		return nil, err
	}
	light, err := parseLight(lines[1])
	if err != nil {
		return nil, err
	}

	tree, err := parseBodies(lines[headerLines:])
	if err != nil {
		return nil, err
	}

	return &Scene{Camera: camera, Light: light, Tree: tree}, nil
}

func parseCamera(line string) (Vec3, error) {
	v, err := parseFloats(line, 1, "camera", cameraFields)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseLight(line string) (Light, error) {
	v, err := parseFloats(line, 2, "light", lightFields)
	if err != nil {
		return Light{}, err
	}
	return Light{
		Color:             [3]float64{v[0], v[1], v[2]},
		Ambient:           v[3],
		Diffuse:           v[4],
		Specular:          v[5],
		LinearAttenuation: v[6],
	}, nil
}

func parseFloats(line string, lineNo int, name string, want int) ([]float64, error) {
	fields := splitRecord(line)
	if len(fields) != want {
		return nil, headerError(lineNo, name, fmt.Sprintf("expected %d fields, got %d", want, len(fields)), nil)
	}

	out := make([]float64, want)
	for i, f := range fields {
		v, err := parseNumber(f)
		if err != nil {
			return nil, headerError(lineNo, fmt.Sprintf("%s field %d", name, i+1), "not a number", err)
		}
		out[i] = v
	}
	return out, nil
}

// parseBodies walks body records keeping the open ancestor at each depth.
// open[d] is the most recent record at depth d, so a record at depth d
// attaches to open[d-1] no matter how many deeper records came between.
func parseBodies(lines []string) (*body.Tree, error) {
	var (
		b    body.Builder
		open []body.ID
	)

	for i, raw := range lines {
		lineNo := i + headerLines + 1
		line := strings.TrimRight(raw, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth := leadingTabs(line)
		fields := splitRecord(line[depth:])

		if depth > len(open) {
			return nil, bodyError(lineNo, "depth",
				fmt.Sprintf("depth %d has no parent at depth %d", depth, depth-1), body.ErrOrphan)
		}
		open = open[:depth]

		rec, err := parseRecord(fields, lineNo)
		if err != nil {
			return nil, err
		}
		rec.Depth = depth
		rec.Line = lineNo

		switch rec.Kind {
		case body.Star:
			if depth != 0 {
				return nil, bodyError(lineNo, "depth", "star must be at depth 0", body.ErrDepth)
			}
			rec.Parent = body.NoParent
		case body.Planet:
			if depth == 0 {
				if b.Len() == 0 {
					return nil, bodyError(lineNo, "depth", "planet appears before the star", body.ErrMissingStar)
				}
				return nil, bodyError(lineNo, "depth", "planet at depth 0 has no parent", body.ErrOrphan)
			}
			rec.Parent = open[depth-1]
		}

		id, err := b.Add(rec)
		if err != nil {
			return nil, bodyError(lineNo, fieldFor(err), "", err)
		}
		open = append(open, id)
	}

	tree, err := b.Build()
	if err != nil {
		return nil, bodyError(len(lines)+headerLines, "star", "missing star record", err)
	}
	return tree, nil
}

func parseRecord(fields []string, lineNo int) (body.Body, error) {
	var rec body.Body

	switch len(fields) {
	case starFields:
		rec.Kind = body.Star
	case planetFields:
		rec.Kind = body.Planet
	default:
		return rec, bodyError(lineNo, "fields",
			fmt.Sprintf("expected %d (star) or %d (planet) fields, got %d", starFields, planetFields, len(fields)), nil)
	}

	rec.Texture = strings.TrimSpace(fields[0])
	if rec.Texture == "" {
		return rec, bodyError(lineNo, "texture", "texture is empty", nil)
	}

	names := [...]string{"", "radius", "rotation period", "orbital distance", "orbital period", "specular"}
	targets := [...]*float64{nil, &rec.Radius, &rec.RotationPeriod, &rec.OrbitalDistance, &rec.OrbitalPeriod, &rec.Specular}
	for i := 1; i < len(fields); i++ {
		v, err := parseNumber(fields[i])
		if err != nil {
			return rec, bodyError(lineNo, names[i], "not a number", err)
		}
		*targets[i] = v
	}
	return rec, nil
}

func fieldFor(err error) string {
	var pe *body.ParamError
	switch {
	case errors.As(err, &pe):
		return pe.Field
	case errors.Is(err, body.ErrDuplicateStar):
		return "star"
	case errors.Is(err, body.ErrOrphan), errors.Is(err, body.ErrDepth), errors.Is(err, body.ErrMissingStar):
		return "depth"
	default:
		return ""
	}
}

var errNotFinite = errors.New("value is not finite")

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func splitRecord(line string) []string {
	return strings.Split(strings.TrimRight(line, "\r\n"), delimiter)
}

func leadingTabs(line string) int {
	n := 0
	for n < len(line) && line[n] == '\t' {
		n++
	}
	return n
}
