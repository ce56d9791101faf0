// backend-go/internal/forecast/estimator_test.go
package forecast

import "testing"

func fp(v float64) *float64 { return &v }

func TestEstimate(t *testing.T) {
	tests := []struct {
		name    string
		monthly []*float64
		want    int
	}{
		{
			name:    "two clear peaks",
			monthly: []*float64{fp(10), fp(10), fp(5), fp(5), fp(5), fp(5)},
			want:    10,
		},
		{
			name:    "peaks not adjacent",
			monthly: []*float64{fp(3), fp(9), fp(1), fp(7), fp(0), fp(2)},
			want:    8,
		},
		{
			name:    "rounds half up",
			monthly: []*float64{fp(3), fp(2), fp(1), fp(0), fp(0), fp(0)},
			want:    3, // (3+2)/2 = 2.5
		},
		{
			name:    "single present month",
			monthly: []*float64{fp(3), nil, nil, nil, nil, nil},
			want:    3,
		},
		{
			name:    "two present months averaged",
			monthly: []*float64{fp(3), fp(1), nil, nil, nil, nil},
			want:    2,
		},
		{
			name:    "all missing",
			monthly: []*float64{nil, nil, nil, nil, nil, nil},
			want:    0,
		},
		{
			name:    "all zero sales",
			monthly: []*float64{fp(0), fp(0), fp(0), fp(0), fp(0), fp(0)},
			want:    0,
		},
		{
			name:    "empty slice",
			monthly: nil,
			want:    0,
		},
		{
			name:    "fractional sales round",
			monthly: []*float64{fp(2.4), fp(2.4), fp(1), fp(1), fp(1), fp(1)},
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.monthly); got != tt.want {
				t.Errorf("Estimate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateDoesNotMutateInput(t *testing.T) {
	monthly := []*float64{fp(1), fp(5), fp(3)}
	Estimate(monthly)
	if *monthly[0] != 1 || *monthly[1] != 5 || *monthly[2] != 3 {
		t.Errorf("input slice was reordered: %v %v %v", *monthly[0], *monthly[1], *monthly[2])
	}
}
