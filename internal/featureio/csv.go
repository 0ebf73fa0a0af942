// Package featureio reads and writes feature matrices as CSV, one vector per
// row.
package featureio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadCSV parses r into a dense matrix. A first row whose cells are not all
// numeric is treated as a header and skipped. Every data row must have the
// same number of columns.
func ReadCSV(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var (
		data []float64
		cols int
		rows int
		line int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		values, err := parseRecord(record)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if rows == 0 {
			cols = len(values)
		} else if len(values) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", line, len(values), cols)
		}
		data = append(data, values...)
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("csv contains no data rows")
	}
	return mat.NewDense(rows, cols, data), nil
}

func parseRecord(record []string) ([]float64, error) {
	values := make([]float64, len(record))
	for i, cell := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// WriteCSV writes m row by row. If header is non-empty it is written first
// and must have one entry per column.
func WriteCSV(w io.Writer, m mat.Matrix, header []string) error {
	rows, cols := m.Dims()
	if len(header) > 0 && len(header) != cols {
		return fmt.Errorf("header has %d entries, matrix has %d columns", len(header), cols)
	}

	cw := csv.NewWriter(w)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FeatureHeader returns column names prefix0..prefix{n-1}.
func FeatureHeader(prefix string, n int) []string {
	h := make([]string, n)
	for i := range h {
		h[i] = prefix + strconv.Itoa(i)
	}
	return h
}
