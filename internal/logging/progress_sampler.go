package logging

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when a percentage bucket boundary is crossed.
type ProgressSampler struct {
	bucketSize int
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%).
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress value should be logged. Values that
// fall back into an already-logged bucket are dropped; 100 always lands in
// its own bucket.
func (s *ProgressSampler) ShouldLog(percent int) bool {
	if s == nil {
		return true
	}
	if percent < 0 {
		return false
	}
	if percent > 100 {
		percent = 100
	}
	bucket := percent / s.bucketSize
	if percent == 100 {
		bucket = 100/s.bucketSize + 1
	}
	if bucket <= s.lastBucket {
		return false
	}
	s.lastBucket = bucket
	return true
}

// Reset clears the sampler state (e.g. when a new run starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
