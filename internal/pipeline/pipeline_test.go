package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fourier/internal/rff"
)

// recordingStage scales every entry and records lifecycle calls.
type recordingStage struct {
	factor   float64
	inits    int
	applies  int
	cleanups int
	failWith error
}

func (s *recordingStage) Init(f rff.Features) (bool, error) {
	s.inits++
	return s.inits == 1, nil
}

func (s *recordingStage) ApplyToFeatures(f rff.Features) error {
	s.applies++
	if s.failWith != nil {
		return s.failWith
	}
	var out mat.Dense
	out.Scale(s.factor, f.Matrix())
	f.SetMatrix(&out)
	return nil
}

func (s *recordingStage) Cleanup() {
	s.cleanups++
}

func newMapper(t *testing.T, seed uint64, dimFeature int) *rff.Mapper {
	t.Helper()
	m := rff.NewMapper(rff.NewSource(seed))
	require.NoError(t, m.SetKernelWidth(1))
	require.NoError(t, m.SetDimFeatureSpace(dimFeature))
	return m
}

func TestNew_RejectsNilStage(t *testing.T) {
	var nilMapper *rff.Mapper
	_, err := New(&recordingStage{factor: 1}, nilMapper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage 1 is nil")

	_, err = New(nil)
	require.Error(t, err)
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	scale := &recordingStage{factor: 2}
	m := newMapper(t, 3, 16)
	p, err := New(scale, m)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	x := mat.NewDense(4, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1})
	f := rff.NewDenseFeatures(mat.DenseCopyOf(x))
	require.NoError(t, p.Run(f))

	assert.Equal(t, 4, f.NumVectors())
	assert.Equal(t, 16, f.Dim())

	// The mapper saw the scaled input.
	var scaled mat.Dense
	scaled.Scale(2, x)
	for i := 0; i < 4; i++ {
		want, err := m.TransformVector(scaled.RawRowView(i))
		require.NoError(t, err)
		assert.Equal(t, want, f.Vector(i))
	}

	// Second run does not re-init.
	require.NoError(t, p.Run(rff.NewDenseFeatures(mat.DenseCopyOf(x))))
	assert.Equal(t, 1, scale.inits)
	assert.Equal(t, 2, scale.applies)
}

func TestPipeline_ChainedMappers(t *testing.T) {
	first := newMapper(t, 1, 32)
	second := newMapper(t, 2, 8)
	p, err := New(first, second)
	require.NoError(t, err)

	f := rff.NewDenseFeatures(mat.NewDense(5, 4, nil))
	require.NoError(t, p.Run(f))
	assert.Equal(t, 8, f.Dim())

	d, err := second.DimInputSpace()
	require.NoError(t, err)
	assert.Equal(t, 32, d)
}

func TestPipeline_StageErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	p, err := New(&recordingStage{factor: 1}, &recordingStage{factor: 1, failWith: boom})
	require.NoError(t, err)

	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	err = p.Run(rff.NewDenseFeatures(mat.NewDense(1, 1, []float64{1})))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage 1")
	assert.Contains(t, ops.String(), "stage 1")
}

func TestPipeline_MapperErrorKinds(t *testing.T) {
	m := rff.NewMapper(rff.NewSource(1)) // no kernel width
	require.NoError(t, m.SetDimFeatureSpace(4))
	p, err := New(m)
	require.NoError(t, err)

	err = p.Run(rff.NewDenseFeatures(mat.NewDense(2, 2, nil)))
	assert.ErrorIs(t, err, rff.ErrInvalidState)
}

func TestPipeline_Close(t *testing.T) {
	a := &recordingStage{factor: 1}
	b := &recordingStage{factor: 1}
	p, err := New(a, b)
	require.NoError(t, err)

	// Close without Run, twice.
	p.Close()
	p.Close()
	assert.Equal(t, 1, a.cleanups)
	assert.Equal(t, 1, b.cleanups)

	err = p.Run(rff.NewDenseFeatures(mat.NewDense(1, 1, nil)))
	assert.Error(t, err)
}
