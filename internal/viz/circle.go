package viz

import (
	"math"
	"math/cmplx"
)

// CircleView maps phases onto a unit circle drawn on a Canvas.
type CircleView struct {
	canvas *Canvas
	cx, cy int
	radius int
}

// NewCircleView sizes the circle to the largest square that fits.
func NewCircleView(w, h int) *CircleView {
	c := NewCanvas(w, h)
	radius := min(c.DotsX(), c.DotsY())/2 - 2
	return &CircleView{
		canvas: c,
		cx:     c.DotsX() / 2,
		cy:     c.DotsY() / 2,
		radius: max(radius, 1),
	}
}

func (v *CircleView) Canvas() *Canvas { return v.canvas }

// Point returns the dot coordinates of angle theta at fraction rho of the
// radius, with θ=0 at three o'clock and counter-clockwise positive.
func (v *CircleView) Point(theta, rho float64) (int, int) {
	s, c := math.Sincos(theta)
	r := rho * float64(v.radius)
	return v.cx + int(math.Round(r*c)), v.cy - int(math.Round(r*s))
}

// Render draws the circle, one marker per oscillator and the order
// parameter vector z from the center.
func (v *CircleView) Render(phases []float64, z complex128) string {
	v.canvas.Clear()
	v.canvas.DrawCircle(v.cx, v.cy, v.radius)
	for _, th := range phases {
		x, y := v.Point(th, 1)
		v.canvas.DrawDisc(x, y, 1)
	}
	if r := cmplx.Abs(z); r > 0 {
		x, y := v.Point(cmplx.Phase(z), r)
		v.canvas.DrawLine(v.cx, v.cy, x, y)
	}
	return v.canvas.String()
}
