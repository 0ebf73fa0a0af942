package rff

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TransformVector maps x to
//
//	y[i] = sqrt(2/D) * cos(w_i . x + b_i)
//
// for each of the D output dimensions. The mapper must be Ready and len(x)
// must equal the input dimension the coefficients were generated for.
func (m *Mapper) TransformVector(x []float64) ([]float64, error) {
	const op = "transform vector"
	if !m.ready() {
		return nil, invalidState(op, "coefficients are not ready (state %s)", m.State())
	}
	if want := m.store.CurDimInputSpace(); len(x) != want {
		return nil, dimensionMismatch(op, len(x), want)
	}
	y := make([]float64, m.dimFeature)
	m.project(y, x)
	return y, nil
}

// TransformMatrix maps every row of x. Coefficients are ensured once for the
// whole batch, then rows are split across Workers goroutines. Row i of the
// result equals TransformVector(row i of x) exactly.
func (m *Mapper) TransformMatrix(x mat.Matrix) (*mat.Dense, error) {
	const op = "transform matrix"
	if x == nil {
		return nil, invalidParameter(op, "matrix is nil")
	}
	if _, err := m.EnsureCoefficients(); err != nil {
		return nil, err
	}
	rows, cols := x.Dims()
	if want := m.store.CurDimInputSpace(); cols != want {
		return nil, dimensionMismatch(op, cols, want)
	}
	if rows == 0 {
		return nil, invalidParameter(op, "matrix has no rows")
	}

	rowOf := func(i int) []float64 { return mat.Row(nil, i, x) }
	if d, ok := x.(*mat.Dense); ok {
		rowOf = d.RawRowView
	}

	out := mat.NewDense(rows, m.dimFeature, nil)
	workers := min(m.Workers(), rows)
	chunk := (rows + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			for i := start; i < end; i++ {
				m.project(out.RawRowView(i), rowOf(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		opsf("transform matrix rows=%d: %v", rows, err)
		return nil, err
	}
	tracef("transformed %d rows into %d features on %d workers", rows, m.dimFeature, workers)
	return out, nil
}

// ApplyToFeatures initializes from f, transforms its matrix and hands the
// result back to f.
func (m *Mapper) ApplyToFeatures(f Features) error {
	if _, err := m.Init(f); err != nil {
		return err
	}
	out, err := m.TransformMatrix(f.Matrix())
	if err != nil {
		return err
	}
	f.SetMatrix(out)
	return nil
}

// project writes the feature map of x into dst; len(dst) is D.
func (m *Mapper) project(dst, x []float64) {
	scale := math.Sqrt(2 / float64(len(dst)))
	for i := range dst {
		dst[i] = scale * math.Cos(floats.Dot(m.store.row(i), x)+m.store.offsets[i])
	}
}
