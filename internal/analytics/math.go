package analytics

import "slices"

// Median finds the median value in a slice of floats. For an even count it
// returns the mean of the two central sorted values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// ComputeStats calculates the summary statistics over a set of values.
func ComputeStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		s.Sum += v
	}
	s.Mean = s.Sum / float64(s.Count)
	s.Median = Median(values)
	return s
}
