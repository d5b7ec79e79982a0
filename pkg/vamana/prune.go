package vamana

import "fmt"

// RobustPrune rebuilds p's out-neighbor list from a set of visited
// candidates: it repeatedly pulls the closest remaining candidate into
// the new neighbor list, then discards any candidate that the newly
// admitted neighbor already "covers" within the alpha slack factor,
// until R neighbors are chosen or the candidate set is exhausted.
func RobustPrune(g *Graph, store *PointStore, src DistanceSource, p int, candidates []int, alpha float64, r int) error {
	return robustPrune(g, store, src, p, candidates, alpha, r, false)
}

// FilteredRobustPrune is the label-aware variant. Pivot selection is
// unchanged: p* is always the closest remaining candidate, but a
// candidate p' is only eligible for elimination once p* is admitted.
// If p' shares p's own label, p* must share that same label too; if
// p' carries a different label from p, p* must carry some label at
// all (NoLabel pivots never eliminate a cross-label candidate). Only
// eligible candidates are then subject to the usual alpha distance
// test.
func FilteredRobustPrune(g *Graph, store *PointStore, src DistanceSource, p int, candidates []int, alpha float64, r int) error {
	return robustPrune(g, store, src, p, candidates, alpha, r, true)
}

func robustPrune(g *Graph, store *PointStore, src DistanceSource, p int, candidates []int, alpha float64, r int, filtered bool) error {
	if alpha < 1 {
		return fmt.Errorf("vamana: robust prune: alpha %.3f < 1: %w", alpha, ErrInvalidArgument)
	}
	if r <= 0 {
		return fmt.Errorf("vamana: robust prune: R %d <= 0: %w", r, ErrInvalidArgument)
	}

	existing, err := g.Neighbors(p)
	if err != nil {
		return err
	}

	v := newCandidateSet()
	addIfNotP := func(idx int) error {
		if idx == p || v.has(idx) {
			return nil
		}
		d, err := src.Distance(p, idx)
		if err != nil {
			return err
		}
		v.add(idx, d)
		return nil
	}
	for _, c := range candidates {
		if err := addIfNotP(c); err != nil {
			return err
		}
	}
	for _, n := range existing {
		if err := addIfNotP(n); err != nil {
			return err
		}
	}

	pLabel := store.At(p).Label
	newNeighbors := make([]int, 0, r)
	alpha32 := float32(alpha)

	for v.size() > 0 {
		var pStar int
		var pStarDist float32
		found := false
		for _, c := range v.list() {
			if !found || c.dist < pStarDist || (c.dist == pStarDist && c.idx < pStar) {
				pStar, pStarDist, found = c.idx, c.dist, true
			}
		}
		if !found {
			break
		}

		newNeighbors = append(newNeighbors, pStar)
		v.remove(pStar)
		if len(newNeighbors) == r {
			break
		}

		pStarLabel := store.At(pStar).Label
		for _, c := range v.list() {
			if filtered {
				cLabel := store.At(c.idx).Label
				eligible := pStarLabel != NoLabel
				if cLabel == pLabel {
					eligible = pStarLabel == pLabel
				}
				if !eligible {
					continue
				}
			}
			dStarPrime, err := src.Distance(pStar, c.idx)
			if err != nil {
				return err
			}
			if alpha32*dStarPrime <= c.dist {
				v.remove(c.idx)
			}
		}
	}

	return g.ReplaceNeighbors(p, newNeighbors)
}
