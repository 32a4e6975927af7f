// Package polygon defines the polygon entity shared by the client and the store API.
package polygon

import (
	"errors"
	"fmt"
	"strings"

	"zone-marker/pkg/geometry"
)

// Limits enforced on polygon creation. Coordinates are in canvas space.
const (
	MaxNameLength = 100
	MinPoints     = 3
	MaxPoints     = 100
	MaxCoordinate = 10000
)

// Polygon is a named, closed point sequence persisted by the store.
// Points marshal as [[x, y], ...] pairs on the wire.
type Polygon struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Points [][2]float64 `json:"points"`
}

// GeometryPoints converts the wire-format pairs to geometry points.
func (p Polygon) GeometryPoints() []geometry.Point2D {
	pts := make([]geometry.Point2D, len(p.Points))
	for i, pair := range p.Points {
		pts[i] = geometry.Point2D{X: pair[0], Y: pair[1]}
	}
	return pts
}

// Validation failures that callers branch on.
var (
	ErrTooFewPoints = errors.New("polygon must have at least 3 points")
	ErrEmptyName    = errors.New("name must be a non-empty string")
	ErrNameTooLong  = fmt.Errorf("name must be less than %d characters", MaxNameLength)
)

// ValidateName checks that a polygon name is non-empty after trimming and
// within the length limit. Returns the trimmed name.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	if len(trimmed) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}

// ValidatePoints checks the point-count and coordinate-range limits.
func ValidatePoints(points [][2]float64) error {
	if len(points) < MinPoints {
		return ErrTooFewPoints
	}
	if len(points) > MaxPoints {
		return fmt.Errorf("polygon cannot have more than %d points", MaxPoints)
	}
	for i, p := range points {
		if p[0] < 0 || p[0] > MaxCoordinate || p[1] < 0 || p[1] > MaxCoordinate {
			return fmt.Errorf("point %d coordinates must be between 0 and %d", i+1, MaxCoordinate)
		}
	}
	return nil
}
