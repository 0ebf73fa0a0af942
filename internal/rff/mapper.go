package rff

import (
	"math"
	"runtime"

	"github.com/banshee-data/fourier/internal/config"
)

// State describes whether a Mapper can transform vectors.
type State int

const (
	// StateUnconfigured means the kernel width or a dimension is missing.
	StateUnconfigured State = iota
	// StateConfigured means width and dimensions are set but the stored
	// coefficients are missing or stale.
	StateConfigured
	// StateReady means the stored coefficients match the configured dimensions.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Mapper computes random Fourier features for the Gaussian kernel. Copying a
// Mapper value shares its coefficient buffers; use Clone for an independent
// copy.
type Mapper struct {
	kernelWidth float64
	dimInput    int
	dimFeature  int

	store   CoefficientStore
	src     Source
	workers int
}

// NewMapper returns an unconfigured mapper drawing from src. A nil src
// selects a clock-seeded PCG source.
func NewMapper(src Source) *Mapper {
	if src == nil {
		src = NewTimeSource()
	}
	return &Mapper{src: src}
}

// NewMapperFromConfig builds a mapper with the kernel width, dimensions,
// seed and worker count from cfg. A zero input dimension is left unset so
// Init can take it from the data.
func NewMapperFromConfig(cfg *config.MapperConfig) (*Mapper, error) {
	if cfg == nil {
		cfg = config.EmptyMapperConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, invalidParameter("configure", "%v", err)
	}

	var src Source
	if seed, ok := cfg.GetSeed(); ok {
		src = NewSource(seed)
	}
	m := NewMapper(src)
	if err := m.SetKernelWidth(cfg.GetKernelWidth()); err != nil {
		return nil, err
	}
	if err := m.SetDimFeatureSpace(cfg.GetDimFeatureSpace()); err != nil {
		return nil, err
	}
	if d := cfg.GetDimInputSpace(); d > 0 {
		if err := m.SetDimInputSpace(d); err != nil {
			return nil, err
		}
	}
	m.SetWorkers(cfg.GetWorkers())
	return m, nil
}

// SetKernelWidth sets sigma. Coefficients already generated keep the width
// they were sampled with until they are regenerated.
func (m *Mapper) SetKernelWidth(w float64) error {
	if !(w > 0) || math.IsInf(w, 1) {
		return invalidParameter("set kernel width", "kernel width must be positive and finite, got %g", w)
	}
	m.kernelWidth = w
	return nil
}

// KernelWidth returns sigma, or ErrInvalidState if it was never set.
func (m *Mapper) KernelWidth() (float64, error) {
	if m.kernelWidth <= 0 {
		return 0, invalidState("kernel width", "kernel width has not been set")
	}
	return m.kernelWidth, nil
}

// SetDimInputSpace declares the input dimensionality.
func (m *Mapper) SetDimInputSpace(d int) error {
	if d <= 0 {
		return invalidParameter("set input dimension", "input dimension must be positive, got %d", d)
	}
	if cur := m.store.CurDimInputSpace(); cur > 0 && cur != d {
		tracef("input dimension %d differs from coefficients (%d); coefficients are stale", d, cur)
	}
	m.dimInput = d
	return nil
}

// DimInputSpace returns the declared input dimensionality.
func (m *Mapper) DimInputSpace() (int, error) {
	if m.dimInput <= 0 {
		return 0, invalidState("input dimension", "input dimension has not been set")
	}
	return m.dimInput, nil
}

// SetDimFeatureSpace declares the output dimensionality D.
func (m *Mapper) SetDimFeatureSpace(d int) error {
	if d <= 0 {
		return invalidParameter("set feature dimension", "feature dimension must be positive, got %d", d)
	}
	if cur := m.store.DimFeatureSpace(); cur > 0 && cur != d {
		tracef("feature dimension %d differs from coefficients (%d); coefficients are stale", d, cur)
	}
	m.dimFeature = d
	return nil
}

// DimFeatureSpace returns the declared output dimensionality.
func (m *Mapper) DimFeatureSpace() (int, error) {
	if m.dimFeature <= 0 {
		return 0, invalidState("feature dimension", "feature dimension has not been set")
	}
	return m.dimFeature, nil
}

// SetWorkers bounds the goroutines TransformMatrix uses. n <= 0 selects
// GOMAXPROCS.
func (m *Mapper) SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	m.workers = n
}

// Workers returns the effective TransformMatrix parallelism.
func (m *Mapper) Workers() int {
	if m.workers > 0 {
		return m.workers
	}
	return runtime.GOMAXPROCS(0)
}

// SetCoefficients installs a copy of c, typically taken from another
// mapper's Coefficients, and sets both declared dimensions to match it.
func (m *Mapper) SetCoefficients(c Coefficients) error {
	if err := m.store.Adopt(c); err != nil {
		return err
	}
	m.dimInput = c.DimInputSpace
	m.dimFeature = c.DimFeatureSpace
	diagf("adopted coefficients dim_input=%d dim_feature=%d", c.DimInputSpace, c.DimFeatureSpace)
	return nil
}

// Coefficients returns a copy of the stored coefficients for reuse by
// another mapper.
func (m *Mapper) Coefficients() (Coefficients, error) {
	c, ok := m.store.Export()
	if !ok {
		return Coefficients{}, invalidState("coefficients", "no coefficients have been generated or set")
	}
	return c, nil
}

// EnsureCoefficients samples new coefficients unless the stored ones already
// match the declared dimensions. It reports whether new coefficients were
// generated; adopted coefficients are kept as long as they match.
func (m *Mapper) EnsureCoefficients() (bool, error) {
	if m.store.IsConsistentWith(m.dimInput, m.dimFeature) {
		return false, nil
	}
	if err := m.regenerate("ensure coefficients"); err != nil {
		return false, err
	}
	return true, nil
}

// Regenerate resamples coefficients for the current configuration even when
// the stored ones, adopted or generated, are consistent with it.
func (m *Mapper) Regenerate() error {
	return m.regenerate("regenerate")
}

func (m *Mapper) regenerate(op string) error {
	if err := m.checkConfigured(op); err != nil {
		return err
	}
	if err := m.store.Generate(m.src, m.dimInput, m.dimFeature, m.kernelWidth); err != nil {
		return err
	}
	diagf("generated coefficients dim_input=%d dim_feature=%d kernel_width=%g", m.dimInput, m.dimFeature, m.kernelWidth)
	return nil
}

func (m *Mapper) checkConfigured(op string) error {
	switch {
	case m.kernelWidth <= 0:
		return invalidState(op, "kernel width has not been set")
	case m.dimInput <= 0:
		return invalidState(op, "input dimension has not been set")
	case m.dimFeature <= 0:
		return invalidState(op, "feature dimension has not been set")
	}
	return nil
}

// Init takes the input dimension from f and ensures coefficients exist for
// it. It returns true if new coefficients were generated and false if the
// stored ones, for example from SetCoefficients, were kept. On failure the
// previous input dimension is restored.
func (m *Mapper) Init(f Features) (bool, error) {
	if f == nil {
		return false, invalidParameter("init", "features are nil")
	}
	prev := m.dimInput
	if err := m.SetDimInputSpace(f.Dim()); err != nil {
		return false, err
	}
	generated, err := m.EnsureCoefficients()
	if err != nil {
		m.dimInput = prev
		return false, err
	}
	return generated, nil
}

// State reports the mapper's position in the configured/ready lifecycle.
func (m *Mapper) State() State {
	if m.ready() {
		return StateReady
	}
	if m.kernelWidth > 0 && m.dimInput > 0 && m.dimFeature > 0 {
		return StateConfigured
	}
	return StateUnconfigured
}

func (m *Mapper) ready() bool {
	return m.dimFeature > 0 && m.store.IsConsistentWith(m.dimInput, m.dimFeature)
}

// Clone returns a mapper with its own copy of every scalar and coefficient.
// The random source is cloned when it implements Cloner and shared otherwise.
func (m *Mapper) Clone() *Mapper {
	c := *m
	c.store = m.store.Clone()
	if cl, ok := m.src.(Cloner); ok {
		c.src = cl.Clone()
	}
	return &c
}

// Cleanup releases nothing; the mapper holds no external resources.
func (m *Mapper) Cleanup() {
	tracef("cleanup state=%s", m.State())
}
