package interpolate

// hermite is the cubic on [a, a+h] with values ya, yb and slopes da, db at
// its ends. It also describes the curve beyond its ends, which is how the
// end segments extrapolate.
type hermite struct {
	a, h   float64
	ya, yb float64
	da, db float64
}

func (s hermite) value(x float64) float64 {
	t := (x - s.a) / s.h
	t2, t3 := t*t, t*t*t
	return (2*t3-3*t2+1)*s.ya +
		(t3-2*t2+t)*s.h*s.da +
		(-2*t3+3*t2)*s.yb +
		(t3-t2)*s.h*s.db
}

func (s hermite) derivative(x float64) float64 {
	t := (x - s.a) / s.h
	t2 := t * t
	return (6*t2-6*t)*s.ya/s.h +
		(3*t2-4*t+1)*s.da +
		(-6*t2+6*t)*s.yb/s.h +
		(3*t2-2*t)*s.db
}

// integral returns the integral from a to a+t*h.
func (s hermite) integral(t float64) float64 {
	t2, t3, t4 := t*t, t*t*t, t*t*t*t
	return s.h * (s.ya*(t4/2-t3+t) +
		s.h*s.da*(t4/4-2*t3/3+t2/2) +
		s.yb*(-t4/2+t3) +
		s.h*s.db*(t4/4-t3/3))
}
