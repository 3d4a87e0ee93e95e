package export

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/san-kum/kurasim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`

// Style sets the colors used by the SVG writers.
type Style struct {
	Background string
	Foreground string
	Coherent   string
	Drifting   string
	Vector     string
}

func DefaultStyle() Style {
	return Style{
		Background: "#0a0a0a",
		Foreground: "#444466",
		Coherent:   "#00ff88",
		Drifting:   "#ff00ff",
		Vector:     "#ffff00",
	}
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, style Style) string {
	if canvas == nil {
		return ""
	}
	w := int(float64(canvas.DotsX()) * scale)
	h := int(float64(canvas.DotsY()) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h, style.Background)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", style.Coherent)
	for y := 0; y < canvas.DotsY(); y++ {
		for x := 0; x < canvas.DotsX(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, scale*0.4)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PhaseCircleSVG draws oscillators on the unit circle with the order
// parameter vector. drifting marks oscillators to color differently; it may
// be nil.
func PhaseCircleSVG(phases []float64, z complex128, drifting []bool, size int, style Style) string {
	c := float64(size) / 2
	radius := c * 0.85

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size, style.Background)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
		c, c, radius, style.Foreground)

	for i, th := range phases {
		fill := style.Coherent
		if i < len(drifting) && drifting[i] {
			fill = style.Drifting
		}
		s, co := math.Sincos(th)
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.1f\" fill=\"%s\"/>\n",
			c+radius*co, c-radius*s, math.Max(2, float64(size)/100), fill)
	}

	if r := cmplx.Abs(z); r > 0 {
		s, co := math.Sincos(cmplx.Phase(z))
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"2\"/>\n",
			c, c, c+r*radius*co, c-r*radius*s, style.Vector)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws y against t as a polyline scaled to fill the image.
func SeriesSVG(t, y []float64, width, height int, style Style) string {
	if len(t) < 2 || len(t) != len(y) {
		return ""
	}

	minX, maxX := t[0], t[len(t)-1]
	minY, maxY := y[0], y[0]
	for _, v := range y {
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, style.Background)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", style.Vector)
	for i := range t {
		x := (t[i] - minX) / rangeX * float64(width)
		py := float64(height) - (y[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, py)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, py)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
