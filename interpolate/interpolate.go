// Package interpolate provides one-dimensional interpolation of sampled data
// with input clean-up (reversed or non-monotonic x), a choice of curve and a
// policy for points outside the sampled range.
//
// Curves are fitted with gonum's interp package. Outside the sampled range
// the value is the fill value (NaN by default) or, with WithExtrapolate, the
// end segment of the curve continued.
package interpolate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Method selects the interpolating curve.
type Method string

const (
	// PCHIP is the monotone piecewise cubic Hermite curve (Fritsch-Butland).
	PCHIP Method = "pchip"
	// Linear joins the samples with straight lines.
	Linear Method = "linear"
	// CubicSpline is a C2 cubic spline: not-a-knot ends, or natural ends
	// when extrapolating. Needs at least 4 points.
	CubicSpline Method = "cubic spline"
)

// Methods lists the supported methods, default first.
func Methods() []Method { return []Method{PCHIP, Linear, CubicSpline} }

// ParseMethod accepts "pchip", "linear" and "cubic spline" (case-insensitive;
// "cubic-spline" and "cubic_spline" too). "" is PCHIP.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	if s == "" {
		return PCHIP, nil
	}
	for _, m := range Methods() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrMethod, s)
}

var (
	ErrMethod       = errors.New("interpolate: unknown method")
	ErrFillValue    = errors.New(`interpolate: fill value must be a number or "extrapolate"`)
	ErrLength       = errors.New("interpolate: x and y must have the same length")
	ErrTooFewPoints = errors.New("interpolate: not enough points")
	ErrNotMonotonic = errors.New("interpolate: x must be strictly monotonic unless monotonic clean-up is enabled")
	ErrNaN          = errors.New("interpolate: x contains NaN")
)

type options struct {
	method         Method
	fill           float64
	extrapolate    bool
	forceMonotonic bool
}

// Option configures New.
type Option func(*options)

// WithMethod picks the curve. The default is PCHIP.
func WithMethod(m Method) Option { return func(o *options) { o.method = m } }

// WithFillValue sets the value returned outside the sampled range.
func WithFillValue(v float64) Option {
	return func(o *options) { o.fill, o.extrapolate = v, false }
}

// WithExtrapolate continues the end segments outside the sampled range.
func WithExtrapolate() Option {
	return func(o *options) { o.extrapolate = true }
}

// WithForceMonotonic drops every point whose x does not exceed all x before
// it instead of failing.
func WithForceMonotonic() Option { return func(o *options) { o.forceMonotonic = true } }

// ParseFill turns "extrapolate", "nan" (or "") or a number into an Option.
func ParseFill(s string) (Option, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "extrapolate":
		return WithExtrapolate(), nil
	case "", "nan":
		return WithFillValue(math.NaN()), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrFillValue, s)
	}
	return WithFillValue(v), nil
}

// curve is the part of a gonum interpolator used here.
type curve interface {
	Fit(xs, ys []float64) error
	Predict(x float64) float64
}

type derivativeCurve interface {
	curve
	PredictDerivative(x float64) float64
}

// Interpolator1D evaluates a curve fitted to strictly increasing samples.
// It is safe for concurrent use once built.
type Interpolator1D struct {
	xs, ys []float64
	opts   options
	fit    curve
	// deriv is fit for the cubic curves, whose slope comes from the fit;
	// nil for the linear curve.
	deriv derivativeCurve
	segs  []hermite
	// cum[i] is the integral of the curve from xs[0] to xs[i].
	cum []float64
}

// New fits an interpolator to the samples (x[i], y[i]). Samples given in
// decreasing x order are reversed first. x and y are not retained.
func New(x, y []float64, opts ...Option) (*Interpolator1D, error) {
	o := options{method: PCHIP, fill: math.NaN()}
	for _, opt := range opts {
		opt(&o)
	}
	m, err := ParseMethod(string(o.method))
	if err != nil {
		return nil, err
	}
	o.method = m
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLength, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrTooFewPoints, len(x))
	}
	for _, v := range x {
		if math.IsNaN(v) {
			return nil, ErrNaN
		}
	}

	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	if xs[0] > xs[len(xs)-1] {
		reverse(xs)
		reverse(ys)
	}
	keep := increasingMask(xs)
	if !all(keep) {
		if !o.forceMonotonic {
			return nil, ErrNotMonotonic
		}
		xs, ys = filter(xs, keep), filter(ys, keep)
	}
	if o.method == CubicSpline && len(xs) < 4 {
		return nil, fmt.Errorf("%w: cubic spline needs at least 4, got %d", ErrTooFewPoints, len(xs))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 increasing, got %d", ErrTooFewPoints, len(xs))
	}

	in := &Interpolator1D{xs: xs, ys: ys, opts: o}
	if err := in.build(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Interpolator1D) build() error {
	n := len(in.xs)
	var fit curve
	switch {
	case in.opts.method == Linear || n == 2:
		// pchip through two points is the straight line
		fit = &interp.PiecewiseLinear{}
	case in.opts.method == PCHIP:
		fit = &interp.FritschButland{}
	case in.opts.extrapolate:
		fit = &interp.NaturalCubic{}
	default:
		fit = &interp.NotAKnotCubic{}
	}
	if err := fit.Fit(in.xs, in.ys); err != nil {
		return fmt.Errorf("interpolate: fit %s: %w", in.opts.method, err)
	}
	in.fit = fit
	if _, linear := fit.(*interp.PiecewiseLinear); !linear {
		in.deriv, _ = fit.(derivativeCurve)
	}

	in.segs = make([]hermite, n-1)
	in.cum = make([]float64, n)
	for i := range in.segs {
		s := hermite{a: in.xs[i], h: in.xs[i+1] - in.xs[i], ya: in.ys[i], yb: in.ys[i+1]}
		if in.deriv != nil {
			// The slope at the left knot comes from the fit; the one at the
			// right knot follows from the curve's value at the midpoint.
			s.da = in.deriv.PredictDerivative(s.a)
			mid := in.deriv.Predict(s.a + s.h/2)
			s.db = s.da - 8*(mid-(s.ya+s.yb)/2)/s.h
		} else {
			s.da = (s.yb - s.ya) / s.h
			s.db = s.da
		}
		in.segs[i] = s
		in.cum[i+1] = in.cum[i] + s.integral(1)
	}
	return nil
}

// X returns a copy of the cleaned, increasing sample x values.
func (in *Interpolator1D) X() []float64 { return append([]float64(nil), in.xs...) }

// Y returns a copy of the sample y values matching X.
func (in *Interpolator1D) Y() []float64 { return append([]float64(nil), in.ys...) }

func (in *Interpolator1D) Method() Method { return in.opts.method }

// FillValue is the value used outside the sampled range when not
// extrapolating.
func (in *Interpolator1D) FillValue() float64 { return in.opts.fill }

func (in *Interpolator1D) Extrapolate() bool { return in.opts.extrapolate }

func (in *Interpolator1D) String() string {
	return fmt.Sprintf("Interpolator1D(method=%s)", in.opts.method)
}

func (in *Interpolator1D) inRange(x float64) bool {
	return x >= in.xs[0] && x <= in.xs[len(in.xs)-1]
}

// segment returns the index i with xs[i] <= x < xs[i+1]; points outside the
// range map to the end segments.
func (in *Interpolator1D) segment(x float64) int {
	i := sort.Search(len(in.xs), func(i int) bool { return in.xs[i] > x }) - 1
	return min(max(i, 0), len(in.segs)-1)
}

// At evaluates the curve at x.
func (in *Interpolator1D) At(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case in.inRange(x):
		return in.fit.Predict(x)
	case in.opts.extrapolate:
		return in.segs[in.segment(x)].value(x)
	default:
		return in.opts.fill
	}
}

// Derivative evaluates the first derivative of the curve at x. At an
// interior knot of a linear curve it is the slope of the segment to the
// right.
func (in *Interpolator1D) Derivative(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case !in.inRange(x) && !in.opts.extrapolate:
		return in.opts.fill
	}
	if in.deriv != nil && in.inRange(x) {
		return in.deriv.PredictDerivative(x)
	}
	return in.segs[in.segment(x)].derivative(x)
}

// Antiderivative evaluates the integral of the curve from X()[0] to x.
func (in *Interpolator1D) Antiderivative(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case !in.inRange(x) && !in.opts.extrapolate:
		return in.opts.fill
	}
	i := in.segment(x)
	s := in.segs[i]
	return in.cum[i] + s.integral((x-s.a)/s.h)
}

// Eval applies At to every element of xi.
func (in *Interpolator1D) Eval(xi []float64) []float64 { return apply(xi, in.At) }

// EvalDerivative applies Derivative to every element of xi.
func (in *Interpolator1D) EvalDerivative(xi []float64) []float64 { return apply(xi, in.Derivative) }

// EvalAntiderivative applies Antiderivative to every element of xi.
func (in *Interpolator1D) EvalAntiderivative(xi []float64) []float64 {
	return apply(xi, in.Antiderivative)
}

// Interp1D fits (x, y) and evaluates the curve at xi.
func Interp1D(xi, x, y []float64, opts ...Option) ([]float64, error) {
	in, err := New(x, y, opts...)
	if err != nil {
		return nil, err
	}
	return in.Eval(xi), nil
}

func apply(xi []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(xi))
	for i, x := range xi {
		out[i] = f(x)
	}
	return out
}

// increasingMask keeps index 0 and every index whose x exceeds the running
// maximum of the values before it.
func increasingMask(xs []float64) []bool {
	keep := make([]bool, len(xs))
	keep[0] = true
	top := xs[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] > top {
			keep[i] = true
			top = xs[i]
		}
	}
	return keep
}

func all(mask []bool) bool {
	for _, ok := range mask {
		if !ok {
			return false
		}
	}
	return true
}

func filter(v []float64, keep []bool) []float64 {
	out := v[:0]
	for i, ok := range keep {
		if ok {
			out = append(out, v[i])
		}
	}
	return out
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
