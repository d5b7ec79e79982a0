package vamana

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/antoniszks/vamana/internal/obslog"
)

// ComputeGroundtruth is the brute-force top-k engine: for every query,
// compute the distance to every base point it is eligible against
// (every base point for QueryUnfiltered, only same-label base points
// for QuerySingleLabel), sort by (distance, index), and keep the
// maxBaseVectors closest. workers > 1 evaluates queries in parallel;
// each query only touches its own output row. A query of an
// unsupported kind is logged and skipped (its row comes back empty)
// rather than failing the whole batch.
func ComputeGroundtruth(base *PointStore, src DistanceSource, queries []Query, maxBaseVectors, workers int) ([][]int, error) {
	if base.Len() == 0 || len(queries) == 0 {
		return nil, ErrEmptyInput
	}

	result := make([][]int, len(queries))
	if workers < 1 {
		workers = 1
	}

	run := func(i int) error {
		q := queries[i]
		row, err := nearestForQuery(base, src, q, maxBaseVectors)
		if errors.Is(err, ErrUnsupportedQueryKind) {
			obslog.GetGlobalLogger().WithFields(map[string]interface{}{"query": i, "kind": q.Kind}).Warn("skipping unsupported query kind")
			return nil
		}
		if err != nil {
			return fmt.Errorf("vamana: groundtruth query %d: %w", i, err)
		}
		result[i] = row
		return nil
	}

	if workers == 1 || len(queries) < 2 {
		for i := range queries {
			if err := run(i); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	g := errgroup.Group{}
	g.SetLimit(workers)
	for i := range queries {
		i := i
		g.Go(func() error { return run(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func nearestForQuery(base *PointStore, src DistanceSource, q Query, maxBaseVectors int) ([]int, error) {
	var cands []candidate
	for _, p := range base.All() {
		switch q.Kind {
		case QueryUnfiltered:
		case QuerySingleLabel:
			if p.Label != q.Value {
				continue
			}
		default:
			return nil, ErrUnsupportedQueryKind
		}
		d, err := src.DistanceToQuery(p.Index, q.Vector)
		if err != nil {
			return nil, err
		}
		cands = append(cands, candidate{idx: p.Index, dist: d})
	}

	top := closest(cands, maxBaseVectors)
	out := make([]int, len(top))
	for i, c := range top {
		out[i] = c.idx
	}
	return out, nil
}

// SaveGroundtruth writes rows in the little-endian binary format: a
// uint32 query count, then per query a uint32 result count followed by
// that many int32 base indices.
func SaveGroundtruth(w io.Writer, rows [][]int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rows))); err != nil {
		return err
	}
	for _, row := range rows {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(row))); err != nil {
			return err
		}
		ints := make([]int32, len(row))
		for i, idx := range row {
			ints[i] = int32(idx)
		}
		if err := binary.Write(w, binary.LittleEndian, ints); err != nil {
			return err
		}
	}
	return nil
}

// LoadGroundtruth reads back what SaveGroundtruth wrote.
func LoadGroundtruth(r io.Reader) ([][]int, error) {
	var numQueries uint32
	if err := binary.Read(r, binary.LittleEndian, &numQueries); err != nil {
		return nil, fmt.Errorf("vamana: load groundtruth: %w", err)
	}

	rows := make([][]int, numQueries)
	for i := range rows {
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("vamana: load groundtruth row %d: %w", i, err)
		}
		ints := make([]int32, count)
		if count > 0 {
			if err := binary.Read(r, binary.LittleEndian, ints); err != nil {
				return nil, fmt.Errorf("vamana: load groundtruth row %d: %w", i, err)
			}
		}
		row := make([]int, count)
		for j, v := range ints {
			row[j] = int(v)
		}
		rows[i] = row
	}
	return rows, nil
}
