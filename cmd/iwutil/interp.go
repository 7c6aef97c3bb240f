package main

import (
	"errors"

	"github.com/spf13/cobra"

	"iwutil/interpolate"
	"iwutil/read"
	"iwutil/save"
	"iwutil/table"
)

func newInterpCmd(getApp func() *App) *cobra.Command {
	var (
		xCol, yCol     string
		at             []float64
		method, fill   string
		forceMonotonic bool
		calculus       bool
	)
	cmd := &cobra.Command{
		Use:   "interp <src> <dst>",
		Short: "Interpolate one column of a table over another at given points",
		Long: `interp fits y (--y) over x (--x) from src and writes a table with the
points in --at and the interpolated values to dst. --calculus adds the
derivative and the antiderivative (integral from the smallest x).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(at) == 0 {
				return errors.New("interp: --at needs at least one point")
			}
			m, err := interpolate.ParseMethod(method)
			if err != nil {
				return err
			}
			fillOpt, err := interpolate.ParseFill(fill)
			if err != nil {
				return err
			}
			opts := []interpolate.Option{interpolate.WithMethod(m), fillOpt}
			if forceMonotonic {
				opts = append(opts, interpolate.WithForceMonotonic())
			}

			src, err := read.Table(args[0], read.WithColumns(xCol, yCol))
			if err != nil {
				return err
			}
			xs, err := src.Floats(xCol)
			if err != nil {
				return err
			}
			ys, err := src.Floats(yCol)
			if err != nil {
				return err
			}
			in, err := interpolate.New(xs, ys, opts...)
			if err != nil {
				return err
			}

			names := []string{xCol, yCol}
			cols := map[string][]any{xCol: floatCells(at), yCol: floatCells(in.Eval(at))}
			if calculus {
				names = append(names, "derivative", "antiderivative")
				cols["derivative"] = floatCells(in.EvalDerivative(at))
				cols["antiderivative"] = floatCells(in.EvalAntiderivative(at))
			}
			out, err := table.FromColumns(names, cols)
			if err != nil {
				return err
			}
			if err := save.Table(out, args[1]); err != nil {
				return err
			}
			getApp().Logger.Info("interpolated", "src", args[0], "dst", args[1], "method", m, "points", len(at), "samples", len(in.X()))
			return nil
		},
	}
	cmd.Flags().StringVar(&xCol, "x", "x", "column with the sample x values")
	cmd.Flags().StringVar(&yCol, "y", "y", "column with the sample y values")
	cmd.Flags().Float64SliceVar(&at, "at", nil, "points to evaluate at")
	cmd.Flags().StringVar(&method, "method", string(interpolate.PCHIP), "pchip | linear | cubic-spline")
	cmd.Flags().StringVar(&fill, "fill", "nan", "value outside the sampled range: a number, nan or extrapolate")
	cmd.Flags().BoolVar(&forceMonotonic, "force-monotonic", false, "drop samples whose x does not increase instead of failing")
	cmd.Flags().BoolVar(&calculus, "calculus", false, "add derivative and antiderivative columns")
	return cmd
}

// floatCells turns NaN into a null cell; the codecs cannot store NaN in
// every format.
func floatCells(v []float64) []any {
	out := make([]any, len(v))
	for i, f := range v {
		if f == f {
			out[i] = f
		}
	}
	return out
}
