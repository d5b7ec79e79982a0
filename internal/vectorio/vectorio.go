// Package vectorio parses the on-disk vector dataset formats consumed
// by the CLI: the classic .fvecs layout for unfiltered base/query
// sets, and the fixed-width binary layout used by the filtered and
// stitched datasets. These are external collaborators to the core
// vamana package; the core never touches a file directly.
package vectorio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadFvecs reads the repeated [int32 dim][dim x float32] records of
// the .fvecs format until EOF. Every record must share the same
// dimension as the first.
func ReadFvecs(r io.Reader) ([][]float32, error) {
	var vectors [][]float32
	var dim int32

	for i := 0; ; i++ {
		var d int32
		if err := binary.Read(r, binary.LittleEndian, &d); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("vectorio: fvecs record %d: %w", i, err)
		}
		if i == 0 {
			dim = d
		} else if d != dim {
			return nil, fmt.Errorf("vectorio: fvecs record %d has dimension %d, want %d", i, d, dim)
		}

		vec := make([]float32, d)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("vectorio: fvecs record %d data: %w", i, err)
		}
		vectors = append(vectors, vec)
	}

	return vectors, nil
}

// FilteredBasePoint is a single record of the filtered base-vector
// file: a categorical label, a timestamp, and a dim-dimensional
// vector.
type FilteredBasePoint struct {
	Label     uint32
	Timestamp float32
	Vector    []float32
}

// ReadFilteredBaseVectors parses the filtered base-vector binary
// format: a uint32 record count, then per record a float32 label, a
// float32 timestamp, and dim float32 components. The label is stored
// as a float in the file (matching the dataset generator) and is
// truncated to uint32 here.
func ReadFilteredBaseVectors(r io.Reader, dim int) ([]FilteredBasePoint, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("vectorio: filtered base header: %w", err)
	}

	points := make([]FilteredBasePoint, n)
	for i := range points {
		var c, t float32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, fmt.Errorf("vectorio: filtered base record %d label: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			return nil, fmt.Errorf("vectorio: filtered base record %d timestamp: %w", i, err)
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("vectorio: filtered base record %d data: %w", i, err)
		}
		points[i] = FilteredBasePoint{Label: labelFromFloat(c), Timestamp: t, Vector: vec}
	}
	return points, nil
}

// FilteredQueryPoint is a single record of the filtered query-vector
// file. QueryType 0 means unfiltered, 1 means C_EQUALS_v; types 2 and
// 3 (timestamp range queries) are parsed here; the CLI drops them when
// it converts records into queries, since only the unfiltered and
// single-label-equals query kinds are supported.
type FilteredQueryPoint struct {
	QueryType int
	Value     uint32
	RangeL    float32
	RangeR    float32
	Vector    []float32
}

// ReadFilteredQueryVectors parses the filtered query-vector binary
// format: a uint32 record count, then per record four float32 header
// fields (query type, value, range low, range high) followed by dim
// float32 components.
func ReadFilteredQueryVectors(r io.Reader, dim int) ([]FilteredQueryPoint, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("vectorio: filtered query header: %w", err)
	}

	points := make([]FilteredQueryPoint, n)
	for i := range points {
		var qt, v, l, rr float32
		for _, f := range []*float32{&qt, &v, &l, &rr} {
			if err := binary.Read(r, binary.LittleEndian, f); err != nil {
				return nil, fmt.Errorf("vectorio: filtered query record %d header: %w", i, err)
			}
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("vectorio: filtered query record %d data: %w", i, err)
		}
		points[i] = FilteredQueryPoint{
			QueryType: int(qt),
			Value:     labelFromFloat(v),
			RangeL:    l,
			RangeR:    rr,
			Vector:    vec,
		}
	}
	return points, nil
}

func labelFromFloat(v float32) uint32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return math.MaxUint32
	}
	return uint32(v)
}
