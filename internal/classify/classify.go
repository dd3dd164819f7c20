// Package classify turns a sampled color into a named, hex-formatted color.
package classify

import (
	"colorpick/internal/colorname"
	"colorpick/pkg/colorutil"
)

// Unknown is the name used when the lookup has no match.
const Unknown = "Unknown"

// Color is a classified sample.
type Color struct {
	Sample colorutil.RGB
	Name   string
	Hex    string // Always "#rrggbb", lowercase
}

// Classifier names samples using a colorname.Namer.
type Classifier struct {
	namer colorname.Namer
}

// New returns a Classifier. A nil namer uses exact CSS3 matching.
func New(namer colorname.Namer) *Classifier {
	if namer == nil {
		namer = colorname.NewExact()
	}
	return &Classifier{namer: namer}
}

// Classify never fails: a lookup miss yields the name Unknown.
func (c *Classifier) Classify(s colorutil.RGB) Color {
	name, ok := c.namer.Name(s)
	if !ok || name == "" {
		name = Unknown
	}
	return Color{Sample: s, Name: name, Hex: s.Hex()}
}
