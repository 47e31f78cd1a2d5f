package subset

import "fmt"

// MaxNonDivisibleSubsetSize returns the size of the largest subset of
// elements in which no two members sum to a multiple of k.
//
// elements must already be distinct. Repeated values are not detected here
// and inflate their bucket; use Distinct or CheckDistinct first when the
// input comes from an untrusted source.
func MaxNonDivisibleSubsetSize(elements []int64, k int) (int, error) {
	counts, err := Partition(elements, k)
	if err != nil {
		return 0, err
	}
	return Select(counts)
}

// Distinct returns elements with repeats removed, keeping the first
// occurrence of each value in input order. The removed values are returned
// in the order they were encountered.
func Distinct(elements []int64) (unique, duplicates []int64) {
	seen := make(map[int64]struct{}, len(elements))
	unique = make([]int64, 0, len(elements))
	for _, x := range elements {
		if _, ok := seen[x]; ok {
			duplicates = append(duplicates, x)
			continue
		}
		seen[x] = struct{}{}
		unique = append(unique, x)
	}
	return unique, duplicates
}

// CheckDistinct reports the first repeated value as ErrDuplicateElement.
func CheckDistinct(elements []int64) error {
	seen := make(map[int64]int, len(elements))
	for i, x := range elements {
		if first, ok := seen[x]; ok {
			return fmt.Errorf("%w: %d at positions %d and %d", ErrDuplicateElement, x, first, i)
		}
		seen[x] = i
	}
	return nil
}
