package rff

import (
	"gonum.org/v1/gonum/mat"
)

// Features is the container a preprocessor reads vectors from and hands its
// output matrix back to. Rows are vectors.
type Features interface {
	NumVectors() int
	Dim() int
	// Vector returns row i. Callers must not modify it.
	Vector(i int) []float64
	Matrix() mat.Matrix
	// SetMatrix replaces the container contents with a processed matrix.
	SetMatrix(m *mat.Dense)
}

// Preprocessor is the lifecycle contract of a preprocessing stage. Init is
// called once before first use and reports whether the stage changed its
// internal state. Cleanup may be called any number of times, with or without
// a prior Init.
type Preprocessor interface {
	Init(f Features) (bool, error)
	Cleanup()
}

// FeatureProcessor is a Preprocessor that rewrites a whole feature container.
type FeatureProcessor interface {
	Preprocessor
	ApplyToFeatures(f Features) error
}

// DenseFeatures is a Features backed by a gonum dense matrix.
type DenseFeatures struct {
	m *mat.Dense
}

// NewDenseFeatures wraps m; the container takes ownership of it.
func NewDenseFeatures(m *mat.Dense) *DenseFeatures {
	return &DenseFeatures{m: m}
}

func (f *DenseFeatures) NumVectors() int {
	if f.m == nil {
		return 0
	}
	r, _ := f.m.Dims()
	return r
}

func (f *DenseFeatures) Dim() int {
	if f.m == nil {
		return 0
	}
	_, c := f.m.Dims()
	return c
}

func (f *DenseFeatures) Vector(i int) []float64 {
	return f.m.RawRowView(i)
}

func (f *DenseFeatures) Matrix() mat.Matrix {
	return f.m
}

// Dense returns the underlying matrix.
func (f *DenseFeatures) Dense() *mat.Dense {
	return f.m
}

func (f *DenseFeatures) SetMatrix(m *mat.Dense) {
	f.m = m
}

var (
	_ Features         = (*DenseFeatures)(nil)
	_ FeatureProcessor = (*Mapper)(nil)
)
