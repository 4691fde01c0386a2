// Package style assigns display colors and radii to node labels.
//
// Styles are a pure function of the order in which labels are first seen:
// the n-th distinct label gets ColorFor(n) and RadiusFor(n). Loading the
// same result set twice therefore styles it identically, and tests can
// assert exact values.
package style

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Radius defaults.
const (
	DefaultInitialRadius = 35.0
	DefaultMinRadius     = 20.0
	DefaultRadiusStep    = 2.0
	DefaultRadius        = 30.0
)

// goldenAngle spreads consecutive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// Channel ranges, in 0-255, that keep fills readable under dark label text.
var (
	redRange   = [2]float64{70, 149}
	greenRange = [2]float64{70, 239}
	blueRange  = [2]float64{70, 239}
)

// Options configures radius assignment.
type Options struct {
	InitialRadius float64 // radius of the first label
	MinRadius     float64 // shrinking stops once the radius is at or below this
	RadiusStep    float64
	DefaultRadius float64 // radius of unlabeled nodes
}

// DefaultOptions returns the stock radius progression: 35, 33, ... 21, 19.
func DefaultOptions() Options {
	return Options{
		InitialRadius: DefaultInitialRadius,
		MinRadius:     DefaultMinRadius,
		RadiusStep:    DefaultRadiusStep,
		DefaultRadius: DefaultRadius,
	}
}

// ColorFor returns the fill color of the label first seen at position
// order (0-based) as "#rrggbb".
func ColorFor(order int) string {
	hue := math.Mod(float64(order)*goldenAngle, 360)
	c := colorful.Hsv(hue, 0.6, 0.9).Clamped()
	return colorful.Color{
		R: scale(c.R, redRange),
		G: scale(c.G, greenRange),
		B: scale(c.B, blueRange),
	}.Hex()
}

func scale(v float64, rng [2]float64) float64 {
	return (rng[0] + v*(rng[1]-rng[0])) / 255
}

// RadiusFor returns the radius of the label first seen at position order.
// The radius shrinks by RadiusStep per label while it is above MinRadius.
func (o Options) RadiusFor(order int) float64 {
	r := o.InitialRadius
	for range order {
		if r <= o.MinRadius || o.RadiusStep <= 0 {
			break
		}
		r -= o.RadiusStep
	}
	return r
}

// Style is the display style of one label.
type Style struct {
	Color  string
	Radius float64
	Order  int
}

// Allocator remembers the labels it has seen and their styles.
//
// Not safe for concurrent use.
type Allocator struct {
	opts   Options
	styles map[string]Style
	order  []string
}

// NewAllocator returns an empty allocator.
func NewAllocator(opts Options) *Allocator {
	return &Allocator{opts: opts, styles: make(map[string]Style)}
}

// Assign registers any unseen labels in order and returns the style of the
// last label, which is what a node with several labels is drawn with.
// A node with no labels gets no color and the default radius.
func (a *Allocator) Assign(labels []string) (color string, radius float64) {
	if len(labels) == 0 {
		return "", a.opts.DefaultRadius
	}
	var s Style
	for _, l := range labels {
		s = a.styleOf(l)
	}
	return s.Color, s.Radius
}

func (a *Allocator) styleOf(label string) Style {
	if s, ok := a.styles[label]; ok {
		return s
	}
	n := len(a.order)
	s := Style{Color: ColorFor(n), Radius: a.opts.RadiusFor(n), Order: n}
	a.styles[label] = s
	a.order = append(a.order, label)
	return s
}

// Lookup returns the style of a label already seen.
func (a *Allocator) Lookup(label string) (Style, bool) {
	s, ok := a.styles[label]
	return s, ok
}

// Labels returns the seen labels in first-seen order.
func (a *Allocator) Labels() []string { return append([]string(nil), a.order...) }

// Reset forgets every label.
func (a *Allocator) Reset() {
	clear(a.styles)
	a.order = a.order[:0]
}
