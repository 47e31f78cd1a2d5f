// Package problem turns raw input into validated problems for the subset
// solver and carries the solutions back out.
//
// Raw text is only ever converted to integers here, so every malformed token
// surfaces as ErrInvalidInput before the solver runs.
package problem

import (
	"fmt"
	"strconv"

	"nondiv/internal/logging"
	"nondiv/internal/subset"

	"go.uber.org/zap"
)

// Problem is one modulus and its input set.
type Problem struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	K        int     `json:"k" yaml:"k"`
	Elements []int64 `json:"elements" yaml:"elements"`
}

// DuplicatePolicy decides what Prepare does with repeated values.
type DuplicatePolicy string

const (
	// PolicyDedupe drops repeats, keeping first occurrences.
	PolicyDedupe DuplicatePolicy = "dedupe"
	// PolicyStrict rejects input containing repeats.
	PolicyStrict DuplicatePolicy = "strict"
)

// ParsePolicy converts a config or flag value into a DuplicatePolicy.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case PolicyDedupe, PolicyStrict:
		return DuplicatePolicy(s), nil
	case "":
		return PolicyDedupe, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (valid: dedupe, strict)", s)
}

// Options controls problem preparation.
type Options struct {
	Duplicates DuplicatePolicy
	MaxModulus int // 0 means subset.MaxModulus
}

// modulusLimit caps the configured limit at what the solver can allocate.
func (o Options) modulusLimit() int {
	if o.MaxModulus <= 0 || o.MaxModulus > subset.MaxModulus {
		return subset.MaxModulus
	}
	return o.MaxModulus
}

// Solution is a solved problem with everything the presentation layer needs.
type Solution struct {
	Problem    Problem          `json:"problem"`
	Counts     subset.Counts    `json:"counts"`
	Selection  subset.Selection `json:"selection"`
	Size       int              `json:"size"`
	Duplicates []int64          `json:"duplicates,omitempty"`
}

// ParseElements converts base-10 tokens to integers.
func ParseElements(tokens []string) ([]int64, error) {
	elements := make([]int64, 0, len(tokens))
	for i, tok := range tokens {
		x, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d (%q) is not a 64-bit integer", ErrInvalidInput, i, tok)
		}
		elements = append(elements, x)
	}
	return elements, nil
}

// Prepare validates the modulus and applies the duplicate policy. It returns
// the cleaned problem and the values removed from it.
func Prepare(p Problem, opts Options) (Problem, []int64, error) {
	if p.K < 1 {
		return Problem{}, nil, fmt.Errorf("%s: %w: k must be >= 1, got %d", p.label(), subset.ErrInvalidModulus, p.K)
	}
	if limit := opts.modulusLimit(); p.K > limit {
		return Problem{}, nil, fmt.Errorf("%s: %w: k=%d exceeds limit %d", p.label(), subset.ErrInvalidModulus, p.K, limit)
	}

	if opts.Duplicates == PolicyStrict {
		if err := subset.CheckDistinct(p.Elements); err != nil {
			return Problem{}, nil, fmt.Errorf("%s: %w", p.label(), err)
		}
		return p, nil, nil
	}

	unique, dups := subset.Distinct(p.Elements)
	if len(dups) > 0 {
		logging.Get(logging.CategorySolver).Debug("removed duplicate elements",
			zap.String("problem", p.label()),
			zap.Int64s("duplicates", dups))
	}
	p.Elements = unique
	return p, dups, nil
}

// Solve prepares p and runs the partition and selection stages.
func Solve(p Problem, opts Options) (Solution, error) {
	prepared, dups, err := Prepare(p, opts)
	if err != nil {
		return Solution{}, err
	}

	counts, err := subset.Partition(prepared.Elements, prepared.K)
	if err != nil {
		return Solution{}, fmt.Errorf("%s: %w", p.label(), err)
	}
	sel, err := subset.Explain(counts)
	if err != nil {
		return Solution{}, fmt.Errorf("%s: %w", p.label(), err)
	}

	logging.Get(logging.CategorySolver).Debug("solved",
		zap.String("problem", p.label()),
		zap.Int("k", prepared.K),
		zap.Int("n", len(prepared.Elements)),
		zap.Int("size", sel.Size))

	return Solution{
		Problem:    prepared,
		Counts:     counts,
		Selection:  sel,
		Size:       sel.Size,
		Duplicates: dups,
	}, nil
}

func (p Problem) label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("k=%d", p.K)
}
