// Package position computes the point a tooltip panel is anchored to.
//
// The calculation is deliberately small: it picks one corner of the
// trigger's bounding box. It does not flip, clamp or otherwise lay out the
// panel.
package position

import (
	"fmt"
	"strings"
)

// Box is an element's bounding box relative to the document root.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is an absolute document coordinate.
type Point struct {
	Top  float64
	Left float64
}

// Origin names the corner of the trigger used as the anchor, written as
// "<vertical>-<horizontal>".
type Origin string

const (
	TopLeft     Origin = "top-left"
	TopRight    Origin = "top-right"
	BottomLeft  Origin = "bottom-left"
	BottomRight Origin = "bottom-right"
)

// Vertical returns the vertical token, "top" unless it is "bottom".
func (o Origin) Vertical() string {
	v, _, _ := strings.Cut(string(o), "-")
	if v == "bottom" {
		return "bottom"
	}
	return "top"
}

// Horizontal returns the horizontal token, "left" unless it is "right".
func (o Origin) Horizontal() string {
	_, h, _ := strings.Cut(string(o), "-")
	if h == "right" {
		return "right"
	}
	return "left"
}

// ParseOrigin validates s strictly. Anchor itself is lenient; this is for
// configuration input where a typo should be reported.
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return o, nil
	}
	return "", fmt.Errorf("position: unknown origin %q", s)
}

// Anchor returns the corner of box named by origin. Unrecognized tokens fall
// back to top and left.
func Anchor(box Box, origin Origin) Point {
	p := Point{Top: box.Top, Left: box.Left}
	if origin.Vertical() == "bottom" {
		p.Top += box.Height
	}
	if origin.Horizontal() == "right" {
		p.Left += box.Width
	}
	return p
}
