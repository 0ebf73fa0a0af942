package featureio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		rows int
		cols int
		at   [3]float64 // row, col, value
	}{
		{"plain", "1,2,3\n4,5,6\n", 2, 3, [3]float64{1, 2, 6}},
		{"header", "a,b\n1.5,2\n-3,4e2\n", 2, 2, [3]float64{1, 1, 400}},
		{"spaces and comments", "# generated\n 1, 2\n3,  4\n", 2, 2, [3]float64{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadCSV(strings.NewReader(tt.in))
			require.NoError(t, err)
			r, c := m.Dims()
			assert.Equal(t, tt.rows, r)
			assert.Equal(t, tt.cols, c)
			assert.Equal(t, tt.at[2], m.At(int(tt.at[0]), int(tt.at[1])))
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", "no data rows"},
		{"header only", "x,y\n", "no data rows"},
		{"ragged", "1,2\n3\n", "columns"},
		{"non numeric body", "1,2\n3,abc\n", "row 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{0.1, -2, 3e-9, 4, 5.5, 1.0 / 3})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m, FeatureHeader("f", 3)))
	assert.True(t, strings.HasPrefix(buf.String(), "f0,f1,f2\n"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back), "formatting must round-trip exactly")
}

func TestWriteCSV_HeaderMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, mat.NewDense(1, 2, nil), []string{"only"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestFeatureHeader(t *testing.T) {
	assert.Equal(t, []string{"z0", "z1"}, FeatureHeader("z", 2))
	assert.Empty(t, FeatureHeader("z", 0))
}
