// Package subset computes the size of the largest subset of distinct integers
// in which no two elements sum to a multiple of a modulus k.
//
// The computation has two pure stages. Partition buckets the input by
// remainder modulo k; Select derives the maximum subset size from the bucket
// counts alone. Neither stage keeps state between calls, so every function in
// this package is safe for concurrent use.
package subset

import "fmt"

// MaxModulus is the largest k Partition allocates buckets for. Larger moduli
// are rejected with ErrInvalidModulus instead of exhausting memory.
const MaxModulus = 1 << 30

// Counts holds one entry per remainder class: Counts[r] is the number of
// elements x with x mod k == r. The length of Counts is the modulus k.
type Counts []int

// Modulus returns k, the number of remainder classes.
func (c Counts) Modulus() int {
	return len(c)
}

// Total returns the number of partitioned elements.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Remainder returns x mod k normalized into [0, k), so negative values land
// in the same class as their positive congruents. k must be >= 1.
func Remainder(x int64, k int) int {
	r := x % int64(k)
	if r < 0 {
		r += int64(k)
	}
	return int(r)
}

// Partition classifies elements into k remainder buckets and returns the
// count per bucket. The sum of the returned counts equals len(elements).
func Partition(elements []int64, k int) (Counts, error) {
	if err := checkModulus(k); err != nil {
		return nil, err
	}

	counts := make(Counts, k)
	for _, x := range elements {
		counts[Remainder(x, k)]++
	}
	return counts, nil
}

func checkModulus(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k must be >= 1, got %d", ErrInvalidModulus, k)
	}
	if k > MaxModulus {
		return fmt.Errorf("%w: k=%d exceeds addressable bucket array (max %d)", ErrInvalidModulus, k, MaxModulus)
	}
	return nil
}
