package deduplication

// DuplicateGroup is one cluster of records judged to be the same entity.
// CanonicalIndex is the position of Canonical in DeduplicationResult.Canonical.
type DuplicateGroup[T any] struct {
	Canonical      T       `json:"canonical"`
	CanonicalIndex int     `json:"canonical_index"`
	Duplicates     []T     `json:"duplicates"`
	Reason         string  `json:"reason"`
	Confidence     float64 `json:"confidence"`
}

// Stats summarises a deduplication pass
type Stats struct {
	Total             int     `json:"total"`
	Canonical         int     `json:"canonical"`
	Duplicates        int     `json:"duplicates"`
	DeduplicationRate float64 `json:"deduplication_rate"`
}

// DeduplicationResult partitions an input batch. Every input record appears exactly
// once: either in Canonical, or in one group's Duplicates. Group canonicals are also
// listed in Canonical.
type DeduplicationResult[T any] struct {
	Canonical  []T                 `json:"canonical"`
	Duplicates []DuplicateGroup[T] `json:"duplicates"`
	Stats      Stats               `json:"stats"`
}

func newStats(total, canonical int) Stats {
	s := Stats{
		Total:      total,
		Canonical:  canonical,
		Duplicates: total - canonical,
	}
	if total > 0 {
		s.DeduplicationRate = float64(s.Duplicates) / float64(total)
	}
	return s
}
