// backend-go/internal/forecast/estimator.go
package forecast

import (
	"math"
	"sort"
)

// Estimate converts six trailing monthly unit-sales figures into one forecast:
// the mean of the two highest present values, rounded half-up. Nil entries are
// missing months and do not count as zero. No present values yields 0.
//
// Averaging the top two of six dampens a single promotional spike while
// staying responsive to a sustained recent trend.
func Estimate(monthly []*float64) int {
	present := make([]float64, 0, len(monthly))
	for _, m := range monthly {
		if m != nil {
			present = append(present, *m)
		}
	}
	if len(present) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(present)))
	n := 2
	if len(present) < n {
		n = len(present)
	}

	var sum float64
	for _, v := range present[:n] {
		sum += v
	}

	return int(math.Floor(sum/float64(n) + 0.5))
}
