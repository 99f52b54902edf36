package restaurant

import "math"

// Statistics summarises the ratings of restaurants inside a search radius.
type Statistics struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Std   float64 `json:"std"`
}

// Summarize returns the population mean and standard deviation of ratings.
// An empty input yields all zeros.
func Summarize(ratings []int) Statistics {
	s := Statistics{Count: len(ratings)}
	if s.Count == 0 {
		return s
	}
	var sum float64
	for _, r := range ratings {
		sum += float64(r)
	}
	s.Avg = sum / float64(s.Count)
	var sq float64
	for _, r := range ratings {
		d := float64(r) - s.Avg
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(s.Count))
	return s
}
