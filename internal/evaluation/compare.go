// Package evaluation measures how closely random Fourier features reproduce
// the exact Gaussian kernel on a sample of vectors.
package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/fourier/internal/rff"
)

// GaussianKernel returns exp(-|x - y|^2 / (2 sigma^2)).
func GaussianKernel(x, y []float64, sigma float64) float64 {
	d := floats.Distance(x, y, 2)
	return math.Exp(-d * d / (2 * sigma * sigma))
}

// Stats summarises the absolute error between the feature-space inner
// product and the exact kernel over all distinct pairs of rows.
type Stats struct {
	Pairs        int     `json:"pairs"`
	MeanAbsError float64 `json:"mean_abs_error"`
	StdAbsError  float64 `json:"std_abs_error"`
	MaxAbsError  float64 `json:"max_abs_error"`
	RMSE         float64 `json:"rmse"`
}

// Compare maps x with m and compares every pairwise inner product of the
// mapped rows against the exact kernel with width sigma. x needs at least
// two rows.
func Compare(m *rff.Mapper, x mat.Matrix, sigma float64) (Stats, error) {
	rows, _ := x.Dims()
	if rows < 2 {
		return Stats{}, fmt.Errorf("need at least 2 rows to compare, got %d", rows)
	}
	if !(sigma > 0) {
		return Stats{}, fmt.Errorf("sigma must be positive, got %g", sigma)
	}

	z, err := m.TransformMatrix(x)
	if err != nil {
		return Stats{}, fmt.Errorf("transform: %w", err)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, z)

	errs := make([]float64, 0, rows*(rows-1)/2)
	var xi, xj []float64
	for i := 0; i < rows; i++ {
		xi = mat.Row(xi, i, x)
		for j := i + 1; j < rows; j++ {
			xj = mat.Row(xj, j, x)
			exact := GaussianKernel(xi, xj, sigma)
			errs = append(errs, math.Abs(gram.At(i, j)-exact))
		}
	}

	mean, std := stat.MeanStdDev(errs, nil)
	sq := 0.0
	for _, e := range errs {
		sq += e * e
	}
	return Stats{
		Pairs:        len(errs),
		MeanAbsError: mean,
		StdAbsError:  std,
		MaxAbsError:  floats.Max(errs),
		RMSE:         math.Sqrt(sq / float64(len(errs))),
	}, nil
}

// Point is one entry of a Sweep.
type Point struct {
	DimFeatureSpace int `json:"dim_feature_space"`
	Stats
}

// Sweep compares fresh mappers of each feature dimension against the exact
// kernel on x. Mapper i is seeded with seed+i so runs are reproducible.
func Sweep(x mat.Matrix, sigma float64, dims []int, seed uint64, workers int) ([]Point, error) {
	_, cols := x.Dims()
	points := make([]Point, 0, len(dims))
	for i, d := range dims {
		m := rff.NewMapper(rff.NewSource(seed + uint64(i)))
		if err := m.SetKernelWidth(sigma); err != nil {
			return nil, err
		}
		if err := m.SetDimInputSpace(cols); err != nil {
			return nil, err
		}
		if err := m.SetDimFeatureSpace(d); err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		m.SetWorkers(workers)

		s, err := Compare(m, x, sigma)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", d, err)
		}
		points = append(points, Point{DimFeatureSpace: d, Stats: s})
		m.Cleanup()
	}
	return points, nil
}
