// Package render composites the background image, the saved polygons, and the
// in-progress draft into canvas pixels. Compose is a total function of its
// inputs: every call starts from a cleared canvas and no drawing state is
// retained between calls.
package render

import (
	"image"
	"image/color"
	"sort"

	"zone-marker/internal/polygon"
	"zone-marker/pkg/colorutil"
	"zone-marker/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// paletteSize is the number of distinct hues before the ramp wraps.
	paletteSize = 6
	hueStep     = 60

	fillAlpha       = 0.3
	strokeThickness = 2
	vertexRadius    = 4
	labelOffsetX    = 20
)

// Compose renders the full canvas: cleared background, the background image
// stretched to exactly w x h, every saved polygon in collection order, then
// the draft on top.
func Compose(background image.Image, polygons []polygon.Polygon, draftPoints []geometry.Point2D, w, h int) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Opaque black base so alpha blending has a defined backdrop.
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if background != nil {
		// Stretch, not aspect-preserving: the canvas is the coordinate space.
		draw.ApproxBiLinear.Scale(output, output.Bounds(), background, background.Bounds(), draw.Src, nil)
	}

	for i, poly := range polygons {
		drawSaved(output, i, poly)
	}

	drawDraft(output, draftPoints)

	return output
}

// PolygonFillColor returns the deterministic fill color for the polygon at
// the given collection index.
func PolygonFillColor(index int) color.RGBA {
	return colorutil.HSLToRGB(float64(index%paletteSize)*hueStep, 0.7, 0.5)
}

// PolygonStrokeColor returns the outline color for the polygon at the given
// collection index: same hue as the fill, darkened.
func PolygonStrokeColor(index int) color.RGBA {
	return colorutil.HSLToRGB(float64(index%paletteSize)*hueStep, 0.7, 0.4)
}

// drawSaved renders one saved polygon: translucent fill, opaque outline, and
// the name label anchored near the centroid.
func drawSaved(output *image.RGBA, index int, poly polygon.Polygon) {
	pts := poly.GeometryPoints()
	if len(pts) < polygon.MinPoints {
		return
	}

	fillPolygon(output, pts, PolygonFillColor(index), fillAlpha)
	strokePath(output, pts, true, PolygonStrokeColor(index), strokeThickness)

	center := geometry.Centroid(pts)
	drawLabel(output, poly.Name, int(center.X)-labelOffsetX, int(center.Y), colorutil.Black)
}

// drawDraft renders the in-progress point sequence: red path (closed with a
// translucent fill once it forms a polygon) and a marker on every vertex.
func drawDraft(output *image.RGBA, pts []geometry.Point2D) {
	if len(pts) == 0 {
		return
	}

	closed := len(pts) >= polygon.MinPoints
	if closed {
		fillPolygon(output, pts, colorutil.Red, fillAlpha)
	}
	if len(pts) > 1 {
		strokePath(output, pts, closed, colorutil.Red, strokeThickness)
	}
	for _, p := range pts {
		fillCircle(output, int(p.X), int(p.Y), vertexRadius, colorutil.Red)
	}
}

// fillPolygon fills the closed path through pts using a scanline sweep,
// alpha-blending col over the existing pixels.
func fillPolygon(output *image.RGBA, pts []geometry.Point2D, col color.RGBA, alpha float64) {
	if len(pts) < 3 {
		return
	}

	bounds := output.Bounds()
	box := geometry.BoundingBox(pts)
	n := len(pts)

	for y := int(box.Y); y <= int(box.Y+box.Height); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		// X coordinates where polygon edges cross this scanline.
		var crossings []float64
		fy := float64(y)
		for i := 0; i < n; i++ {
			p1 := pts[i]
			p2 := pts[(i+1)%n]
			if (p1.Y <= fy && p2.Y > fy) || (p2.Y <= fy && p1.Y > fy) {
				t := (fy - p1.Y) / (p2.Y - p1.Y)
				crossings = append(crossings, p1.X+t*(p2.X-p1.X))
			}
		}
		sort.Float64s(crossings)

		for i := 0; i+1 < len(crossings); i += 2 {
			x1 := int(crossings[i])
			x2 := int(crossings[i+1])
			for x := x1; x <= x2; x++ {
				if x >= bounds.Min.X && x < bounds.Max.X {
					output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col, alpha))
				}
			}
		}
	}
}

// strokePath draws line segments through pts in order, connecting the last
// point back to the first when closed.
func strokePath(output *image.RGBA, pts []geometry.Point2D, closed bool, col color.RGBA, thickness int) {
	last := len(pts) - 1
	for i := 0; i < last; i++ {
		drawLine(output, pts[i], pts[i+1], col, thickness)
	}
	if closed && len(pts) > 2 {
		drawLine(output, pts[last], pts[0], col, thickness)
	}
}

// drawLine draws a thick line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, from, to geometry.Point2D, col color.RGBA, thickness int) {
	bounds := output.Bounds()
	x1, y1 := int(from.X), int(from.Y)
	x2, y2 := int(to.X), int(to.Y)

	dx := x2 - x1
	if dx < 0 {
		dx = -dx
	}
	dy := y2 - y1
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillCircle draws a filled circle marking a placed draft vertex.
func fillCircle(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius

	for y := cy - radius; y <= cy+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLabel renders the polygon name at the given anchor.
func drawLabel(output *image.RGBA, label string, x, y int, col color.RGBA) {
	if label == "" {
		return
	}
	d := font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
