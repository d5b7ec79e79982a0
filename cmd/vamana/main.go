// Command vamana builds, queries, and evaluates Vamana-family
// approximate nearest neighbor indexes.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/antoniszks/vamana/internal/obslog"
	"github.com/antoniszks/vamana/internal/vectorio"
	"github.com/antoniszks/vamana/pkg/vamana"
)

const version = "1.0.0"

var log = obslog.Default()

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compute-gt":
		runComputeGT(os.Args[2:])
	case "create":
		runCreate(os.Args[2:])
	case "test":
		runTest(os.Args[2:])
	case "version":
		fmt.Printf("vamana version %s\n", version)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`vamana - Vamana/FilteredVamana/StitchedVamana index tool

Usage:
  vamana compute-gt -base-file FILE -query-file FILE -gt-file FILE [-max-distances N]
  vamana create     -index-type {simple|filtered|stiched} -base-file FILE -alpha A -save FILE [flags]
  vamana test       -index-type {simple|filtered|stiched} -load FILE -gt-file FILE -query-file FILE -query <i|-1> [flags]
  vamana version
  vamana help`)
}

// indexTypeIsFiltered reports whether index-type implies the filtered
// binary base/query format (fixed D=100) rather than the plain .fvecs
// stream. "simple" is the only unfiltered variant.
func indexTypeIsFiltered(indexType string) bool {
	return indexType != "simple"
}

// loadBase reads either the plain .fvecs format or the filtered
// binary format into a PointStore, depending on indexType.
func loadBase(path, indexType string, dim int) (*vamana.PointStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening base file: %w", err)
	}
	defer f.Close()

	if !indexTypeIsFiltered(indexType) {
		vectors, err := vectorio.ReadFvecs(f)
		if err != nil {
			return nil, err
		}
		return vamana.NewPointStore(vectors)
	}

	points, err := vectorio.ReadFilteredBaseVectors(f, dim)
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(points))
	labels := make([]uint32, len(points))
	timestamps := make([]float32, len(points))
	for i, p := range points {
		vectors[i], labels[i], timestamps[i] = p.Vector, p.Label, p.Timestamp
	}
	return vamana.NewFilteredPointStore(vectors, labels, timestamps)
}

// loadQueries reads either format into a slice of vamana.Query.
func loadQueries(path, indexType string, dim int) ([]vamana.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	if !indexTypeIsFiltered(indexType) {
		vectors, err := vectorio.ReadFvecs(f)
		if err != nil {
			return nil, err
		}
		queries := make([]vamana.Query, len(vectors))
		for i, v := range vectors {
			queries[i] = vamana.Query{Vector: v, Kind: vamana.QueryUnfiltered}
		}
		return queries, nil
	}

	points, err := vectorio.ReadFilteredQueryVectors(f, dim)
	if err != nil {
		return nil, err
	}
	queries := make([]vamana.Query, 0, len(points))
	for _, p := range points {
		// Only query_kind in {0.0, 1.0} is processed; other kinds are
		// silently skipped here, matching the test scorer's own skip
		// policy for kinds it does not support.
		q := vamana.Query{Vector: p.Vector}
		switch p.QueryType {
		case 0:
			q.Kind = vamana.QueryUnfiltered
		case 1:
			q.Kind = vamana.QuerySingleLabel
			q.Value = p.Value
		default:
			continue
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func distanceSource(store *vamana.PointStore, cacheMode string, workers int) (vamana.DistanceSource, error) {
	switch cacheMode {
	case "matrix":
		cache := vamana.NewDistanceCache(store.Len())
		if err := cache.Fill(store, workers); err != nil {
			return nil, err
		}
		return vamana.NewDistanceSource(store, vamana.CacheMatrix, cache), nil
	default:
		return vamana.NewDistanceSource(store, vamana.CacheNone, nil), nil
	}
}

func fail(msg string, fs *flag.FlagSet) {
	log.Error(msg)
	fs.Usage()
	os.Exit(1)
}

// writeAtomic writes to a temp file in the same directory as path,
// then renames it into place on success. No partial file ever lands
// at path: on any failure the temp file is removed and path is left
// untouched.
func writeAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

func runComputeGT(args []string) {
	fs := flag.NewFlagSet("compute-gt", flag.ExitOnError)
	baseFile := fs.String("base-file", "", "base vectors file, filtered binary format (required)")
	queryFile := fs.String("query-file", "", "query vectors file, filtered binary format (required)")
	gtFile := fs.String("gt-file", "", "output groundtruth file (required)")
	maxDistances := fs.Int("max-distances", 1000, "number of nearest neighbors to keep per query")
	dim := fs.Int("dim", 100, "vector dimension")
	workers := fs.Int("workers", 1, "parallel query workers")
	cache := fs.String("cache", "none", "distance source: none|matrix")
	fs.Parse(args)

	if *baseFile == "" || *queryFile == "" || *gtFile == "" {
		fail("compute-gt requires -base-file, -query-file and -gt-file", fs)
	}

	baseStore, err := loadBase(*baseFile, "filtered", *dim)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load base vectors")
	}
	queries, err := loadQueries(*queryFile, "filtered", *dim)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load query vectors")
	}
	src, err := distanceSource(baseStore, *cache, *workers)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to build distance source")
	}

	bar := progressbar.Default(int64(len(queries)), "computing groundtruth")
	rows, err := vamana.ComputeGroundtruth(baseStore, src, queries, *maxDistances, *workers)
	_ = bar.Add(len(queries))
	if err != nil {
		log.WithField("error", err.Error()).Fatal("groundtruth computation failed")
	}

	if err := writeAtomic(*gtFile, func(f *os.File) error { return vamana.SaveGroundtruth(f, rows) }); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to write groundtruth file")
	}

	log.WithFields(map[string]interface{}{"queries": len(queries), "max_distances": *maxDistances}).Info("groundtruth written")
}

func runCreate(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	indexType := fs.String("index-type", "simple", "index type: simple|filtered|stiched")
	baseFile := fs.String("base-file", "", "base vectors file (required)")
	save := fs.String("save", "", "output index file (required)")
	alpha := fs.Float64("alpha", 1.2, "RobustPrune slack factor")
	l := fs.Int("L", 75, "candidate pool bound during construction (simple/filtered)")
	r := fs.Int("R", 32, "out-degree cap (simple/filtered)")
	lSmall := fs.Int("L-small", 50, "stiched variant: per-label candidate pool bound")
	rSmall := fs.Int("R-small", 24, "stiched variant: per-label out-degree cap")
	rStitched := fs.Int("R-stiched", 32, "stiched variant: final out-degree cap")
	connectionMode := fs.String("connection-mode", "filled", "graph seeding before construction: empty|filled")
	dim := fs.Int("dim", 100, "vector dimension (filtered/stiched only)")
	medoidSample := fs.Int("medoid-sample", 1000, "sample size for approximate_medoid")
	tau := fs.Int("tau", 1000, "sample size for filtered_medoid")
	seed := fs.Int64("seed", 1, "master RNG seed")
	cache := fs.String("cache", "none", "distance source: none|matrix")
	workers := fs.Int("workers", 1, "worker count for distance cache fill")
	fs.Parse(args)

	if *baseFile == "" || *save == "" {
		fail("create requires -base-file and -save", fs)
	}

	mode := vamana.ModeFilled
	if *connectionMode == "empty" {
		mode = vamana.ModeEmpty
	}

	store, err := loadBase(*baseFile, *indexType, *dim)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load base vectors")
	}
	src, err := distanceSource(store, *cache, *workers)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to build distance source")
	}
	rng := vamana.NewBuildRNG(*seed)

	bar := progressbar.Default(int64(store.Len()), fmt.Sprintf("building %s index", *indexType))
	var g *vamana.Graph

	switch *indexType {
	case "simple":
		params := vamana.BuildParams{Alpha: *alpha, L: *l, R: *r, Mode: mode}
		g, _, err = vamana.BuildVamana(store, src, rng, params, *medoidSample)
	case "filtered":
		registry := vamana.NewFilterRegistry(store)
		params := vamana.BuildParams{Alpha: *alpha, L: *l, R: *r, Mode: mode}
		g, _, _, err = vamana.BuildFilteredVamana(store, registry, src, rng, params, *medoidSample, *tau)
	case "stiched":
		registry := vamana.NewFilterRegistry(store)
		params := vamana.StitchedBuildParams{Alpha: *alpha, LSmall: *lSmall, RSmall: *rSmall, RStitched: *rStitched}
		g, err = vamana.BuildStitchedVamana(store, registry, src, rng, params, *medoidSample)
	default:
		log.WithField("index-type", *indexType).Fatal("unknown index type")
	}
	_ = bar.Add(store.Len())
	if err != nil {
		log.WithField("error", err.Error()).Fatal("index construction failed")
	}

	filtered := indexTypeIsFiltered(*indexType)
	if err := writeAtomic(*save, func(f *os.File) error { return vamana.SaveIndex(f, g, store, filtered) }); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to write index file")
	}

	log.WithFields(map[string]interface{}{"index-type": *indexType, "nodes": g.Size()}).Info("index written")
}

func runTest(args []string) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	indexType := fs.String("index-type", "simple", "index type: simple|filtered|stiched")
	load := fs.String("load", "", "index file (required)")
	queryFile := fs.String("query-file", "", "query vectors file (required)")
	gtFile := fs.String("gt-file", "", "groundtruth file (required)")
	query := fs.Int("query", -1, "query index to test, or -1 for every query")
	testOn := fs.String("test-on", "", "restrict -query -1 scoring to filtered|unfiltered queries (optional)")
	l := fs.Int("L", 75, "candidate pool bound during search")
	k := fs.Int("k", 10, "neighbors to retrieve and score recall@k against")
	dim := fs.Int("dim", 100, "vector dimension (filtered/stiched only)")
	cache := fs.String("cache", "none", "distance source: none|matrix")
	workers := fs.Int("workers", 1, "worker count for distance cache fill")
	fs.Parse(args)

	if *load == "" || *queryFile == "" || *gtFile == "" {
		fail("test requires -load, -query-file and -gt-file", fs)
	}
	if *testOn != "" && *query != -1 {
		fail("-test-on is only valid when -query -1", fs)
	}
	if *testOn != "" && *testOn != "filtered" && *testOn != "unfiltered" {
		fail("-test-on must be filtered or unfiltered", fs)
	}

	idxFile, err := os.Open(*load)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to open index file")
	}
	g, store, err := vamana.LoadIndex(idxFile)
	idxFile.Close()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load index")
	}

	queries, err := loadQueries(*queryFile, *indexType, *dim)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load query vectors")
	}

	gtReader, err := os.Open(*gtFile)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to open groundtruth file")
	}
	groundtruth, err := vamana.LoadGroundtruth(gtReader)
	gtReader.Close()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to load groundtruth")
	}

	src, err := distanceSource(store, *cache, *workers)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to build distance source")
	}

	medoidRNG := rand.New(rand.NewSource(1))
	medoid, err := vamana.ApproximateMedoid(store, src, medoidRNG, 1000)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to locate a search entry point")
	}

	filtered := indexTypeIsFiltered(*indexType)
	var registry *vamana.FilterRegistry
	var starts map[uint32]int
	if filtered {
		registry = vamana.NewFilterRegistry(store)
		starts = vamana.FilteredMedoid(registry, rand.New(rand.NewSource(2)), 1000)
	}

	search := func(q vamana.Query) ([]int, error) {
		if filtered && q.Kind == vamana.QuerySingleLabel {
			s, ok := starts[q.Value]
			if !ok {
				s = medoid
			}
			got, _, err := vamana.FilteredGreedySearch(g, store, src, []int{s}, q.Vector, *k, *l, []uint32{q.Value})
			return got, err
		}
		got, _, err := vamana.GreedySearch(g, store, src, medoid, q.Vector, *k, *l)
		return got, err
	}

	includeQuery := func(q vamana.Query) bool {
		switch *testOn {
		case "filtered":
			return q.Kind == vamana.QuerySingleLabel
		case "unfiltered":
			return q.Kind == vamana.QueryUnfiltered
		default:
			return true
		}
	}

	if *query >= 0 {
		if *query >= len(queries) {
			log.WithField("query", *query).Fatal("query index out of range")
		}
		got, err := search(queries[*query])
		if err != nil {
			log.WithField("error", err.Error()).Fatal("search failed")
		}
		recall := 0.0
		if *query < len(groundtruth) {
			recall = recallAtK(got, groundtruth[*query], *k)
		}
		log.WithFields(map[string]interface{}{"query": *query, "k": *k, "recall": recall}).Info("evaluation complete")
		return
	}

	bar := progressbar.Default(int64(len(queries)), "scoring queries")
	var recallSum float64
	var scored int
	for i, q := range queries {
		if !includeQuery(q) {
			continue
		}
		got, err := search(q)
		if err != nil {
			log.WithFields(map[string]interface{}{"query": i, "error": err.Error()}).Fatal("search failed")
		}
		if i < len(groundtruth) {
			recallSum += recallAtK(got, groundtruth[i], *k)
			scored++
		}
		_ = bar.Add(1)
	}

	avgRecall := 0.0
	if scored > 0 {
		avgRecall = recallSum / float64(scored)
	}
	log.WithFields(map[string]interface{}{"queries": scored, "k": *k, "recall": avgRecall}).Info("evaluation complete")
}

// recallAtK is the fraction of the top-k groundtruth neighbors that
// also appear in got.
func recallAtK(got, groundtruth []int, k int) float64 {
	if k <= 0 || len(groundtruth) == 0 {
		return 0
	}
	if len(groundtruth) > k {
		groundtruth = groundtruth[:k]
	}
	present := make(map[int]bool, len(got))
	for _, idx := range got {
		present[idx] = true
	}
	hits := 0
	for _, idx := range groundtruth {
		if present[idx] {
			hits++
		}
	}
	return float64(hits) / float64(len(groundtruth))
}
