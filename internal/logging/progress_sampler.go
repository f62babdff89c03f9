package logging

// ProgressSampler suppresses repetitive progress logs, emitting only when the
// completion percentage crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress at done/total should be logged. The
// first call and the final item always log.
func (s *ProgressSampler) ShouldLog(done, total int) bool {
	if s == nil || total <= 0 {
		return true
	}
	percent := float64(done) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if done >= total {
		bucket = int(100/s.bucketSize) + 1
	}
	if bucket == s.lastBucket {
		return false
	}
	s.lastBucket = bucket
	return true
}
