package vamana

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Persistence text format, grounded on VamanaIndex::saveGraph /
// loadGraph but simplified: the original re-serializes each neighbor's
// full vector inline on the edge line and re-resolves it back to an
// index on load, which is redundant once the point section has already
// been read. Here neighbors are stored as bare indices instead, the
// same information with one write of each vector's data instead of
// out-degree many.
//
//	vamana 1 <filtered>
//	<n> <dim>
//	<n point lines: index [label timestamp] v0 v1 ... v(dim-1)>
//	<n edge lines: outDegree n1 n2 ... n(outDegree)>
const formatMagic = "vamana"
const formatVersion = "1"

// SaveIndex writes g and store to w in the line-oriented text format.
// filtered controls whether each point line carries a label and
// timestamp field.
func SaveIndex(w io.Writer, g *Graph, store *PointStore, filtered bool) error {
	if g.Size() != store.Len() {
		return fmt.Errorf("vamana: save: graph has %d nodes, store has %d points: %w", g.Size(), store.Len(), ErrInvalidArgument)
	}

	bw := bufio.NewWriter(w)
	filteredFlag := "0"
	if filtered {
		filteredFlag = "1"
	}
	if _, err := fmt.Fprintf(bw, "%s %s %s\n", formatMagic, formatVersion, filteredFlag); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d\n", store.Len(), store.Dimension()); err != nil {
		return err
	}

	for i := 0; i < store.Len(); i++ {
		p := store.At(i)
		if filtered {
			if _, err := fmt.Fprintf(bw, "%d %d %s", p.Index, p.Label, strconv.FormatFloat(float64(p.Timestamp), 'g', -1, 32)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(bw, "%d", p.Index); err != nil {
				return err
			}
		}
		for _, v := range p.Vector {
			if _, err := fmt.Fprintf(bw, " %s", strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}

	for i := 0; i < g.Size(); i++ {
		neighbors, err := g.Neighbors(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%d", len(neighbors)); err != nil {
			return err
		}
		for _, n := range neighbors {
			if _, err := fmt.Fprintf(bw, " %d", n); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// wordScanner tokenizes the input on whitespace, mirroring the
// original format's use of operator>> for parsing regardless of line
// breaks.
func wordScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	s.Split(bufio.ScanWords)
	return s
}

func nextToken(s *bufio.Scanner) (string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("vamana: load: unexpected end of input: %w", ErrCorruptIndex)
	}
	return s.Text(), nil
}

func nextInt(s *bufio.Scanner) (int, error) {
	tok, err := nextToken(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("vamana: load: %q is not an integer: %w", tok, ErrCorruptIndex)
	}
	return v, nil
}

func nextUint32(s *bufio.Scanner) (uint32, error) {
	tok, err := nextToken(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("vamana: load: %q is not a uint32: %w", tok, ErrCorruptIndex)
	}
	return uint32(v), nil
}

func nextFloat32(s *bufio.Scanner) (float32, error) {
	tok, err := nextToken(s)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("vamana: load: %q is not a float: %w", tok, ErrCorruptIndex)
	}
	return float32(v), nil
}

// LoadIndex reads back what SaveIndex wrote.
func LoadIndex(r io.Reader) (*Graph, *PointStore, error) {
	s := wordScanner(r)

	magic, err := nextToken(s)
	if err != nil {
		return nil, nil, err
	}
	if magic != formatMagic {
		return nil, nil, fmt.Errorf("vamana: load: bad magic %q: %w", magic, ErrCorruptIndex)
	}
	if _, err := nextToken(s); err != nil { // version, currently unchecked
		return nil, nil, err
	}
	filteredFlag, err := nextToken(s)
	if err != nil {
		return nil, nil, err
	}
	filtered := filteredFlag == "1"

	n, err := nextInt(s)
	if err != nil {
		return nil, nil, err
	}
	dim, err := nextInt(s)
	if err != nil {
		return nil, nil, err
	}
	if n <= 0 || dim <= 0 {
		return nil, nil, fmt.Errorf("vamana: load: n=%d dim=%d: %w", n, dim, ErrCorruptIndex)
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		idx, err := nextInt(s)
		if err != nil {
			return nil, nil, err
		}
		label := NoLabel
		var ts float32
		if filtered {
			if label, err = nextUint32(s); err != nil {
				return nil, nil, err
			}
			if ts, err = nextFloat32(s); err != nil {
				return nil, nil, err
			}
		}
		vec := make([]float32, dim)
		for d := 0; d < dim; d++ {
			if vec[d], err = nextFloat32(s); err != nil {
				return nil, nil, err
			}
		}
		points[i] = Point{Index: idx, Vector: vec, Label: label, Timestamp: ts}
	}

	store, err := newPointStoreFromPoints(points)
	if err != nil {
		return nil, nil, err
	}

	g := NewGraph(n)
	for i := 0; i < n; i++ {
		outDegree, err := nextInt(s)
		if err != nil {
			return nil, nil, err
		}
		neighbors := make([]int, outDegree)
		for j := 0; j < outDegree; j++ {
			if neighbors[j], err = nextInt(s); err != nil {
				return nil, nil, err
			}
		}
		if err := g.ReplaceNeighbors(i, neighbors); err != nil {
			return nil, nil, err
		}
	}

	return g, store, nil
}
