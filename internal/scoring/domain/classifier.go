package domain

// Bucket is the qualitative band of a lead score.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// Bucket thresholds, inclusive lower bounds.
const (
	HighThreshold   = 70
	MediumThreshold = 40
)

// Classify maps any score to exactly one bucket. NaN falls through to low.
func Classify(score float64) Bucket {
	switch {
	case score >= HighThreshold:
		return BucketHigh
	case score >= MediumThreshold:
		return BucketMedium
	default:
		return BucketLow
	}
}

// Summary aggregates a set of scores for the dashboard.
type Summary struct {
	Count   int
	High    int
	Medium  int
	Low     int
	Average float64
}

// Summarize counts scores per bucket and takes their arithmetic mean. The
// mean of an empty set is 0.
func Summarize(scores []int) Summary {
	var s Summary
	sum := 0
	for _, score := range scores {
		switch Classify(float64(score)) {
		case BucketHigh:
			s.High++
		case BucketMedium:
			s.Medium++
		default:
			s.Low++
		}
		sum += score
	}
	s.Count = len(scores)
	if s.Count > 0 {
		s.Average = float64(sum) / float64(s.Count)
	}
	return s
}
