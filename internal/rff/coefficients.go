package rff

import (
	"gonum.org/v1/gonum/mat"
)

// Coefficients is the value-transfer record for the random projection. A
// record returned by Export or Mapper.Coefficients owns its buffers; passing
// it to Adopt or Mapper.SetCoefficients copies them again.
type Coefficients struct {
	// PhaseOffsets holds one offset in [0, 2pi) per output dimension.
	PhaseOffsets []float64
	// Frequencies is DimFeatureSpace x DimInputSpace, one frequency vector per row.
	Frequencies *mat.Dense

	DimFeatureSpace int
	DimInputSpace   int
}

// CoefficientStore owns the phase offsets and frequency matrix together with
// the input dimension they were generated for. The zero value holds no
// coefficients.
type CoefficientStore struct {
	offsets     []float64
	frequencies *mat.Dense
	// curDimInput is 0 until coefficients exist.
	curDimInput int
}

// Generate samples dimFeature phase offsets uniformly in [0, 2pi) and a
// dimFeature x dimInput frequency matrix with N(0, 1/kernelWidth^2) entries,
// replacing whatever was stored.
func (s *CoefficientStore) Generate(src Source, dimInput, dimFeature int, kernelWidth float64) error {
	const op = "generate"
	switch {
	case dimInput <= 0:
		return invalidParameter(op, "input dimension must be positive, got %d", dimInput)
	case dimFeature <= 0:
		return invalidParameter(op, "feature dimension must be positive, got %d", dimFeature)
	case !(kernelWidth > 0):
		return invalidParameter(op, "kernel width must be positive, got %g", kernelWidth)
	case src == nil:
		return invalidParameter(op, "random source is nil")
	}

	offsets := make([]float64, dimFeature)
	for i := range offsets {
		offsets[i] = src.Uniform()
	}

	scale := 1 / kernelWidth
	raw := make([]float64, dimFeature*dimInput)
	for i := range raw {
		raw[i] = src.Gaussian() * scale
	}

	s.offsets = offsets
	s.frequencies = mat.NewDense(dimFeature, dimInput, raw)
	s.curDimInput = dimInput
	return nil
}

// Adopt installs externally supplied coefficients verbatim. Only the shape of
// c is checked; its statistical properties are the caller's responsibility.
func (s *CoefficientStore) Adopt(c Coefficients) error {
	const op = "adopt"
	if c.DimFeatureSpace <= 0 || c.DimInputSpace <= 0 {
		return invalidParameter(op, "dimensions must be positive, got feature=%d input=%d", c.DimFeatureSpace, c.DimInputSpace)
	}
	if len(c.PhaseOffsets) != c.DimFeatureSpace {
		return invalidParameter(op, "%d phase offsets for feature dimension %d", len(c.PhaseOffsets), c.DimFeatureSpace)
	}
	if c.Frequencies == nil {
		return invalidParameter(op, "frequency matrix is nil")
	}
	if r, cols := c.Frequencies.Dims(); r != c.DimFeatureSpace || cols != c.DimInputSpace {
		return invalidParameter(op, "frequency matrix is %dx%d, want %dx%d", r, cols, c.DimFeatureSpace, c.DimInputSpace)
	}

	s.offsets = append([]float64(nil), c.PhaseOffsets...)
	s.frequencies = mat.DenseCopyOf(c.Frequencies)
	s.curDimInput = c.DimInputSpace
	return nil
}

// IsConsistentWith reports whether coefficients exist for exactly these
// input and feature dimensions.
func (s *CoefficientStore) IsConsistentWith(dimInput, dimFeature int) bool {
	return s.curDimInput > 0 && s.curDimInput == dimInput && len(s.offsets) == dimFeature
}

// CurDimInputSpace returns the input dimension the stored coefficients were
// generated for, or 0 when there are none.
func (s *CoefficientStore) CurDimInputSpace() int {
	return s.curDimInput
}

// DimFeatureSpace returns the number of stored phase offsets.
func (s *CoefficientStore) DimFeatureSpace() int {
	return len(s.offsets)
}

// Export returns deep copies of the stored coefficients. The boolean is false
// when nothing has been generated or adopted yet.
func (s *CoefficientStore) Export() (Coefficients, bool) {
	if s.curDimInput <= 0 {
		return Coefficients{}, false
	}
	return Coefficients{
		PhaseOffsets:    append([]float64(nil), s.offsets...),
		Frequencies:     mat.DenseCopyOf(s.frequencies),
		DimFeatureSpace: len(s.offsets),
		DimInputSpace:   s.curDimInput,
	}, true
}

// Clone returns an independent copy of the store.
func (s *CoefficientStore) Clone() CoefficientStore {
	c := CoefficientStore{curDimInput: s.curDimInput}
	if s.offsets != nil {
		c.offsets = append([]float64(nil), s.offsets...)
	}
	if s.frequencies != nil {
		c.frequencies = mat.DenseCopyOf(s.frequencies)
	}
	return c
}

// row returns the i-th frequency vector without copying.
func (s *CoefficientStore) row(i int) []float64 {
	return s.frequencies.RawRowView(i)
}
