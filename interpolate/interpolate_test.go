package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// y = x^2 sampled at 0..4
func quadratic() ([]float64, []float64) {
	return []float64{0, 1, 2, 3, 4}, []float64{0, 1, 4, 9, 16}
}

func TestInterpolator1D_Basic(t *testing.T) {
	x, y := quadratic()
	in, err := New(x, y)
	require.NoError(t, err)

	got := in.Eval([]float64{0.5, 1.5, 2.5})
	require.Len(t, got, 3)
	assert.True(t, got[0] > 0 && got[0] < 1, got[0])
	assert.True(t, got[1] > 1 && got[1] < 4, got[1])
	assert.True(t, got[2] > 4 && got[2] < 9, got[2])

	for i := range x {
		assert.InDelta(t, y[i], in.At(x[i]), 1e-12, "passes through sample %d", i)
	}
}

func TestInterpolator1D_Methods(t *testing.T) {
	x, y := quadratic()
	for _, m := range Methods() {
		t.Run(string(m), func(t *testing.T) {
			in, err := New(x, y, WithMethod(m))
			require.NoError(t, err)
			v := in.At(1.5)
			assert.False(t, math.IsNaN(v))
			assert.True(t, v > 1 && v < 4, v)

			assert.Equal(t, x, in.X())
			assert.Equal(t, y, in.Y())
			assert.Equal(t, m, in.Method())
			assert.True(t, math.IsNaN(in.FillValue()))
			assert.False(t, in.Extrapolate())
			assert.Equal(t, "Interpolator1D(method="+string(m)+")", in.String())
		})
	}
}

func TestInterpolator1D_Linear(t *testing.T) {
	x, y := quadratic()
	in, err := New(x, y, WithMethod(Linear))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, in.At(1.5), 1e-12)
	assert.InDelta(t, 3.0, in.Derivative(1.5), 1e-12)
	assert.InDelta(t, 5.0, in.Derivative(2), 1e-12, "right-hand slope at a knot")
	// 0.5 over [0,1] plus 1 + 3*0.125 over [1,1.5]
	assert.InDelta(t, 1.375, in.Antiderivative(1.5), 1e-12)
}

func TestInterpolator1D_CubicSplineReproducesQuadratic(t *testing.T) {
	x, y := quadratic()
	in, err := New(x, y, WithMethod(CubicSpline))
	require.NoError(t, err)

	for _, v := range []float64{0.25, 1.5, 2.5, 3.75} {
		assert.InDelta(t, v*v, in.At(v), 1e-9, "value at %v", v)
		assert.InDelta(t, 2*v, in.Derivative(v), 1e-9, "slope at %v", v)
		assert.InDelta(t, v*v*v/3, in.Antiderivative(v), 1e-9, "integral to %v", v)
	}
	assert.InDelta(t, 64.0/3, in.Antiderivative(4), 1e-9)
}

func TestInterpolator1D_FillAndExtrapolate(t *testing.T) {
	x, y := quadratic()

	in, err := New(x, y)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(in.At(5)))
	assert.True(t, math.IsNaN(in.At(-1)))
	assert.True(t, math.IsNaN(in.Derivative(5)))
	assert.True(t, math.IsNaN(in.Antiderivative(5)))

	filled, err := New(x, y, WithFillValue(-1))
	require.NoError(t, err)
	assert.Equal(t, -1.0, filled.At(5))
	assert.InDeltaSlice(t, []float64{-1, 1, -1}, filled.Eval([]float64{-0.5, 1, 4.5}), 1e-12)

	ex, err := New(x, y, WithExtrapolate())
	require.NoError(t, err)
	assert.True(t, ex.Extrapolate())
	v := ex.At(5)
	assert.False(t, math.IsNaN(v))
	assert.Greater(t, v, 16.0)

	lin, err := New(x, y, WithMethod(Linear), WithExtrapolate())
	require.NoError(t, err)
	assert.InDelta(t, 23.0, lin.At(5), 1e-12)
	assert.InDelta(t, -1.0, lin.At(-1), 1e-12)
	assert.InDelta(t, 7.0, lin.Derivative(5), 1e-12)

	spline, err := New(x, y, WithMethod(CubicSpline), WithExtrapolate())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(spline.At(5)))
	assert.InDelta(t, spline.At(4), spline.At(4+1e-9), 1e-6, "continuous at the last knot")
}

func TestInterpolator1D_Monotonic(t *testing.T) {
	x := []float64{0, 1, 0.5, 2, 3}
	y := []float64{0, 1, 0.5, 4, 9}

	_, err := New(x, y)
	assert.ErrorIs(t, err, ErrNotMonotonic)

	in, err := New(x, y, WithForceMonotonic())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, in.X())
	assert.Equal(t, []float64{0, 1, 4, 9}, in.Y())
	assert.False(t, math.IsNaN(in.At(1.5)))

	// duplicates are not strictly increasing
	_, err = New([]float64{0, 1, 1, 2}, []float64{0, 1, 1, 4})
	assert.ErrorIs(t, err, ErrNotMonotonic)

	// the caller's slices are left alone
	assert.Equal(t, []float64{0, 1, 0.5, 2, 3}, x)
}

func TestInterpolator1D_ReverseOrder(t *testing.T) {
	x := []float64{4, 3, 2, 1, 0}
	y := []float64{16, 9, 4, 1, 0}

	in, err := New(x, y)
	require.NoError(t, err)
	v := in.At(1.5)
	assert.True(t, v > 1 && v < 4, v)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, in.X())
	assert.Equal(t, []float64{16, 9, 4, 1, 0}, y)
}

func TestInterpolator1D_TwoPoints(t *testing.T) {
	x, y := []float64{0, 1}, []float64{0, 1}

	for _, m := range []Method{Linear, PCHIP} {
		in, err := New(x, y, WithMethod(m))
		require.NoError(t, err, m)
		assert.InDelta(t, 0.5, in.At(0.5), 1e-12, m)
	}

	_, err := New(x, y, WithMethod(CubicSpline))
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestInterpolator1D_InvalidInputs(t *testing.T) {
	x, y := quadratic()

	_, err := New(x, y, WithMethod("invalid"))
	assert.ErrorIs(t, err, ErrMethod)

	_, err = ParseFill("invalid")
	assert.ErrorIs(t, err, ErrFillValue)

	_, err = New(x, y[:4])
	assert.ErrorIs(t, err, ErrLength)

	_, err = New(x[:1], y[:1])
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = New([]float64{0, math.NaN(), 2}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrNaN)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"":             PCHIP,
		"PCHIP":        PCHIP,
		" linear ":     Linear,
		"cubic spline": CubicSpline,
		"cubic-spline": CubicSpline,
		"cubic_spline": CubicSpline,
	} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMethod("akima")
	assert.ErrorIs(t, err, ErrMethod)
}

func TestParseFill(t *testing.T) {
	x, y := quadratic()
	for _, tc := range []struct {
		in   string
		at5  float64
		nan  bool
		extr bool
	}{
		{in: "", nan: true},
		{in: "NaN", nan: true},
		{in: "-2.5", at5: -2.5},
		{in: "extrapolate", extr: true},
	} {
		opt, err := ParseFill(tc.in)
		require.NoError(t, err, tc.in)
		in, err := New(x, y, WithMethod(Linear), opt)
		require.NoError(t, err)
		assert.Equal(t, tc.extr, in.Extrapolate(), tc.in)
		switch {
		case tc.nan:
			assert.True(t, math.IsNaN(in.At(5)), tc.in)
		case tc.extr:
			assert.InDelta(t, 23.0, in.At(5), 1e-12)
		default:
			assert.Equal(t, tc.at5, in.At(5), tc.in)
		}
	}
}

func TestDerivative(t *testing.T) {
	x, y := quadratic()
	for _, m := range Methods() {
		in, err := New(x, y, WithMethod(m))
		require.NoError(t, err, m)
		d := in.Derivative(1.5)
		assert.True(t, d > 2 && d < 4, "%s: %v", m, d)
		assert.Len(t, in.EvalDerivative([]float64{0.5, 1.5}), 2)
	}
}

func TestAntiderivative(t *testing.T) {
	x, y := quadratic()
	for _, m := range Methods() {
		in, err := New(x, y, WithMethod(m))
		require.NoError(t, err, m)
		a := in.Antiderivative(1.5)
		assert.True(t, a > 0.5 && a < 2.0, "%s: %v", m, a)
		assert.Equal(t, 0.0, in.Antiderivative(0), m)

		got := in.EvalAntiderivative([]float64{1, 2, 3})
		assert.True(t, got[0] < got[1] && got[1] < got[2], "%s: increasing for y >= 0", m)
	}
}

func TestInterp1D(t *testing.T) {
	x, y := quadratic()
	for _, m := range Methods() {
		got, err := Interp1D([]float64{0.5, 1.5, 2.5}, x, y, WithMethod(m))
		require.NoError(t, err, m)
		require.Len(t, got, 3)
		assert.True(t, got[0] > 0 && got[0] < 1, "%s: %v", m, got)
		assert.True(t, got[1] > 1 && got[1] < 4, "%s: %v", m, got)
		assert.True(t, got[2] > 4 && got[2] < 9, "%s: %v", m, got)
	}

	_, err := Interp1D([]float64{1}, x, y[:2])
	assert.ErrorIs(t, err, ErrLength)
}

func TestHermite(t *testing.T) {
	// x^3 on [1, 3]: values 1 and 27, slopes 3 and 27
	s := hermite{a: 1, h: 2, ya: 1, yb: 27, da: 3, db: 27}
	for _, x := range []float64{0, 1, 1.5, 2, 3, 4} {
		assert.InDelta(t, x*x*x, s.value(x), 1e-9, "value at %v", x)
		assert.InDelta(t, 3*x*x, s.derivative(x), 1e-9, "slope at %v", x)
		assert.InDelta(t, (x*x*x*x-1)/4, s.integral((x-s.a)/s.h), 1e-9, "integral to %v", x)
	}
}
