// Package draft holds the in-progress point sequence for a polygon being drawn.
package draft

import "zone-marker/pkg/geometry"

// Draft is the transient point sequence accumulated while drawing.
// It carries no validation beyond the count thresholds.
type Draft struct {
	points []geometry.Point2D
}

// New creates an empty draft.
func New() *Draft {
	return &Draft{}
}

// AddPoint appends a point to the sequence.
func (d *Draft) AddPoint(p geometry.Point2D) {
	d.points = append(d.points, p)
}

// Reset discards all accumulated points.
func (d *Draft) Reset() {
	d.points = nil
}

// Points returns a copy of the accumulated points in click order.
func (d *Draft) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(d.points))
	copy(out, d.points)
	return out
}

// Len returns the number of accumulated points.
func (d *Draft) Len() int {
	return len(d.points)
}

// CanShowSaveAffordance reports whether the save control should be visible.
// The control appears before the draft is savable; CanSave governs enablement.
func (d *Draft) CanShowSaveAffordance() bool {
	return len(d.points) > 1
}

// CanSave reports whether the draft forms a closeable polygon.
func (d *Draft) CanSave() bool {
	return len(d.points) >= 3
}

// WirePoints converts the points to the [[x, y], ...] wire format.
func (d *Draft) WirePoints() [][2]float64 {
	out := make([][2]float64, len(d.points))
	for i, p := range d.points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
