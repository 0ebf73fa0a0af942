package rff

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source supplies the random draws used to sample coefficients.
type Source interface {
	// Gaussian returns a standard normal draw.
	Gaussian() float64
	// Uniform returns a draw uniform in [0, 2pi).
	Uniform() float64
}

// Cloner is implemented by sources that can hand out an independent copy of
// their generator state. Mapper.Clone uses it so clones never share a source.
type Cloner interface {
	Clone() Source
}

// pcgStream mixes the seed into the second PCG word.
const pcgStream = 0x9e3779b97f4a7c15

// PCGSource draws from gonum distributions driven by a PCG generator.
type PCGSource struct {
	pcg    *rand.PCG
	normal distuv.Normal
	phase  distuv.Uniform
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) *PCGSource {
	return newPCGSource(rand.NewPCG(seed, seed^pcgStream))
}

// NewTimeSource returns a source seeded from the wall clock.
func NewTimeSource() *PCGSource {
	return NewSource(uint64(time.Now().UnixNano()))
}

func newPCGSource(pcg *rand.PCG) *PCGSource {
	return &PCGSource{
		pcg:    pcg,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: pcg},
		phase:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: pcg},
	}
}

// Gaussian implements Source.
func (s *PCGSource) Gaussian() float64 {
	return s.normal.Rand()
}

// Uniform implements Source.
func (s *PCGSource) Uniform() float64 {
	v := s.phase.Rand()
	// Float64 rounding can land exactly on the open upper bound.
	if v >= s.phase.Max {
		return s.phase.Min
	}
	return v
}

// Clone returns a source that continues from the same generator state
// without sharing it.
func (s *PCGSource) Clone() Source {
	pcg := *s.pcg
	return newPCGSource(&pcg)
}
