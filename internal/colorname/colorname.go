// Package colorname maps RGB values to CSS3 color keywords.
package colorname

import (
	"fmt"
	"sort"

	"colorpick/pkg/colorutil"

	"github.com/lucasb-eyer/go-colorful"
)

// Naming modes accepted by New.
const (
	ModeExact   = "exact"
	ModeNearest = "nearest"
)

// Namer looks up the name of a color. ok is false when there is no match.
type Namer interface {
	Name(c colorutil.RGB) (name string, ok bool)
}

// New returns the Namer for a naming mode.
func New(mode string) (Namer, error) {
	switch mode {
	case "", ModeExact:
		return NewExact(), nil
	case ModeNearest:
		return NewNearest(0), nil
	default:
		return nil, fmt.Errorf("unknown naming mode %q", mode)
	}
}

// Exact matches only colors whose hex value is a CSS3 keyword.
type Exact struct {
	byHex map[string]string
}

// NewExact builds the reverse hex->name table.
func NewExact() *Exact {
	byHex := make(map[string]string, len(css3))
	for name, hex := range css3 {
		if _, dup := css3Preferred[hex]; dup {
			continue
		}
		byHex[hex] = name
	}
	for hex, name := range css3Preferred {
		byHex[hex] = name
	}
	return &Exact{byHex: byHex}
}

// Name implements Namer.
func (e *Exact) Name(c colorutil.RGB) (string, bool) {
	name, ok := e.byHex[c.Hex()]
	return name, ok
}

type entry struct {
	name  string
	color colorful.Color
}

// Nearest returns the keyword closest to the color by CIEDE2000 distance.
type Nearest struct {
	entries     []entry
	maxDistance float64
}

// NewNearest builds a nearest-keyword Namer. A maxDistance of zero or less
// accepts any distance, so every color gets a name.
func NewNearest(maxDistance float64) *Nearest {
	exact := NewExact()
	n := &Nearest{maxDistance: maxDistance}
	for hex, name := range exact.byHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		n.entries = append(n.entries, entry{name: name, color: c})
	}
	// Map iteration order is random; sort so ties resolve the same way every run.
	sort.Slice(n.entries, func(i, j int) bool { return n.entries[i].name < n.entries[j].name })
	return n
}

// Name implements Namer.
func (n *Nearest) Name(c colorutil.RGB) (string, bool) {
	target := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}

	best := -1
	bestDist := 0.0
	for i, e := range n.entries {
		d := target.DistanceCIEDE2000(e.color)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", false
	}
	if n.maxDistance > 0 && bestDist > n.maxDistance {
		return "", false
	}
	return n.entries[best].name, true
}
