package vamana

import "errors"

// Sentinel errors for the taxonomy the core surfaces to callers. Every
// failure inside the graph engine and persistence codec wraps one of
// these with fmt.Errorf("...: %w", ...) so call sites can match with
// errors.Is without parsing message text.
var (
	// ErrDimensionMismatch is returned when two vectors of unequal
	// dimension are compared.
	ErrDimensionMismatch = errors.New("vamana: dimension mismatch")

	// ErrEmptyGraph is returned by GreedySearch when the graph has zero
	// nodes.
	ErrEmptyGraph = errors.New("vamana: empty graph")

	// ErrEmptyInput is returned when a builder or groundtruth computation
	// is given an empty base or query set.
	ErrEmptyInput = errors.New("vamana: empty input")

	// ErrOutOfRange is returned when a node index is not in [0, N).
	ErrOutOfRange = errors.New("vamana: index out of range")

	// ErrCorruptIndex is returned by the persistence codec on malformed
	// or truncated input.
	ErrCorruptIndex = errors.New("vamana: corrupt index file")

	// ErrUnsupportedQueryKind is returned for a query kind outside
	// {unfiltered, single-label}.
	ErrUnsupportedQueryKind = errors.New("vamana: unsupported query kind")

	// ErrInvalidArgument is returned for malformed builder/engine
	// parameters (e.g. R <= 0, alpha < 1).
	ErrInvalidArgument = errors.New("vamana: invalid argument")
)
