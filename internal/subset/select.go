package subset

import "fmt"

// Kind identifies which rule of the Selector produced a Contribution.
type Kind string

const (
	// KindZero is the class of multiples of k. At most one element is taken.
	KindZero Kind = "zero"
	// KindPair is a complementary pair of classes r and k-r. The larger
	// class is taken whole.
	KindPair Kind = "pair"
	// KindHalf is the class k/2 for even k. At most one element is taken.
	KindHalf Kind = "half"
)

// Contribution records one decision of the Selector.
//
// For KindZero and KindHalf, Class == Complement and Chosen == Class.
// For KindPair, Class is r, Complement is k-r and Chosen is whichever of the
// two was taken (Class on ties).
type Contribution struct {
	Kind            Kind `json:"kind"`
	Class           int  `json:"class"`
	Complement      int  `json:"complement"`
	ClassCount      int  `json:"class_count"`
	ComplementCount int  `json:"complement_count"`
	Chosen          int  `json:"chosen"`
	Taken           int  `json:"taken"`
}

// Selection is the full breakdown of a Select computation.
type Selection struct {
	K             int            `json:"k"`
	Contributions []Contribution `json:"contributions"`
	Size          int            `json:"size"`
}

// Select returns the maximum size of a subset in which no two elements sum
// to a multiple of k, given the remainder bucket counts of the input.
func Select(counts Counts) (int, error) {
	if err := checkCounts(counts); err != nil {
		return 0, err
	}

	k := len(counts)
	size := atMostOne(counts[0])
	for r := 1; r <= (k-1)/2; r++ {
		size += max(counts[r], counts[k-r])
	}
	if k%2 == 0 {
		size += atMostOne(counts[k/2])
	}
	return size, nil
}

// Explain performs the same computation as Select and returns every
// contribution in ascending class order: the zero class, each complementary
// pair, then the k/2 class when k is even.
func Explain(counts Counts) (Selection, error) {
	if err := checkCounts(counts); err != nil {
		return Selection{}, err
	}

	k := len(counts)
	sel := Selection{K: k}
	sel.add(single(KindZero, 0, counts[0]))
	for r := 1; r <= (k-1)/2; r++ {
		c := Contribution{
			Kind:            KindPair,
			Class:           r,
			Complement:      k - r,
			ClassCount:      counts[r],
			ComplementCount: counts[k-r],
			Chosen:          r,
			Taken:           counts[r],
		}
		if counts[k-r] > counts[r] {
			c.Chosen = k - r
			c.Taken = counts[k-r]
		}
		sel.add(c)
	}
	if k%2 == 0 {
		sel.add(single(KindHalf, k/2, counts[k/2]))
	}
	return sel, nil
}

func (s *Selection) add(c Contribution) {
	s.Contributions = append(s.Contributions, c)
	s.Size += c.Taken
}

func single(kind Kind, class, count int) Contribution {
	return Contribution{
		Kind:            kind,
		Class:           class,
		Complement:      class,
		ClassCount:      count,
		ComplementCount: count,
		Chosen:          class,
		Taken:           atMostOne(count),
	}
}

func atMostOne(n int) int {
	if n > 0 {
		return 1
	}
	return 0
}

func checkCounts(counts Counts) error {
	if err := checkModulus(len(counts)); err != nil {
		return err
	}
	for r, n := range counts {
		if n < 0 {
			return fmt.Errorf("%w: remainder %d has count %d", ErrInvalidCounts, r, n)
		}
	}
	return nil
}
