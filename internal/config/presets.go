package config

import (
	"math"
	"sort"
)

// View is a terminal camera orientation.
type View struct {
	RotX, RotY float64
	Zoom       float64
}

var Views = map[string]View{
	"top":     {RotX: math.Pi / 2, Zoom: 1.0},
	"edge":    {RotX: 0, Zoom: 1.0},
	"oblique": {RotX: 0.45, RotY: 0.3, Zoom: 1.0},
	"close":   {RotX: 0.45, RotY: 0.3, Zoom: 3.0},
}

func GetView(name string) (View, bool) {
	v, ok := Views[name]
	return v, ok
}

func ListViews() []string {
	names := make([]string, 0, len(Views))
	for name := range Views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
