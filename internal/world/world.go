// Package world provides the resource field: noise-placed sites agents can
// seek out. The simulation core reads positions only and never mutates
// site quantities.
package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Point is a position on the continuous plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to other.
func (p Point) Dist(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ResourceKind classifies what a site offers.
type ResourceKind string

const (
	ResourceFood      ResourceKind = "food"
	ResourceKnowledge ResourceKind = "knowledge"
	ResourceMaterial  ResourceKind = "material"
	ResourceSanctuary ResourceKind = "sanctuary"
)

// Site is a fixed location offering one kind of resource.
type Site struct {
	Kind     ResourceKind `json:"kind"`
	Pos      Point        `json:"pos"`
	Richness float64      `json:"richness"` // 0–1, from the noise field
}

// Field holds all resource sites, generated deterministically from a seed.
type Field struct {
	Width  float64
	Height float64
	Sites  []Site
}

// GenConfig controls field generation.
type GenConfig struct {
	Seed    int64
	Width   float64
	Height  float64
	Spacing float64 // grid step between candidate sites
}

// DefaultGenConfig returns the standard field dimensions.
func DefaultGenConfig() GenConfig {
	return GenConfig{Seed: 42, Width: 1200, Height: 800, Spacing: 80}
}

// Generate builds the resource field. Each kind reads its own noise layer;
// a candidate grid point becomes a site where its layer is locally strong.
func Generate(cfg GenConfig) *Field {
	kinds := []ResourceKind{ResourceFood, ResourceKnowledge, ResourceMaterial, ResourceSanctuary}
	f := &Field{Width: cfg.Width, Height: cfg.Height}

	for i, kind := range kinds {
		noise := opensimplex.NewNormalized(cfg.Seed + int64(i))
		for x := cfg.Spacing / 2; x < cfg.Width; x += cfg.Spacing {
			for y := cfg.Spacing / 2; y < cfg.Height; y += cfg.Spacing {
				v := noise.Eval2(x/300, y/300)
				if v > 0.72 {
					f.Sites = append(f.Sites, Site{Kind: kind, Pos: Point{X: x, Y: y}, Richness: v})
				}
			}
		}
	}
	return f
}

// Nearest returns the closest site of the given kind, or false if the field
// has none. Used only to bias movement.
func (f *Field) Nearest(from Point, kind ResourceKind) (Site, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i, s := range f.Sites {
		if s.Kind != kind {
			continue
		}
		d := from.Dist(s.Pos)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return Site{}, false
	}
	return f.Sites[best], true
}
