package deduplication

import (
	"fmt"

	"eventguard/types"
)

// DeduplicateSpeakers merges speakers sharing an exact canonical key. Name and org are
// the full identity of a speaker, so no similarity check is applied. Speakers whose
// name normalizes to nothing are passed through untouched.
func DeduplicateSpeakers(speakers []types.SpeakerRecord) DeduplicationResult[types.SpeakerRecord] {
	type bucket struct {
		key     CanonicalKey
		members []int
	}

	buckets := make(map[string]*bucket)
	// first-seen order; unkeyed speakers get a bucket of their own
	order := make([]*bucket, 0, len(speakers))

	for i, s := range speakers {
		key := GenerateSpeakerKey(s)
		if normalizeSpeakerName(s.Name) == "" {
			order = append(order, &bucket{key: key, members: []int{i}})
			continue
		}
		if b, ok := buckets[key.Key]; ok {
			b.members = append(b.members, i)
			continue
		}
		b := &bucket{key: key, members: []int{i}}
		buckets[key.Key] = b
		order = append(order, b)
	}

	result := DeduplicationResult[types.SpeakerRecord]{
		Canonical:  make([]types.SpeakerRecord, 0, len(order)),
		Duplicates: make([]DuplicateGroup[types.SpeakerRecord], 0),
	}

	for _, b := range order {
		if len(b.members) == 1 {
			result.Canonical = append(result.Canonical, speakers[b.members[0]])
			continue
		}

		best := b.members[0]
		for _, idx := range b.members[1:] {
			if valueOf(speakers[idx].Confidence) > valueOf(speakers[best].Confidence) {
				best = idx
			}
		}

		rest := make([]types.SpeakerRecord, 0, len(b.members)-1)
		for _, idx := range b.members {
			if idx != best {
				rest = append(rest, speakers[idx])
			}
		}

		result.Duplicates = append(result.Duplicates, DuplicateGroup[types.SpeakerRecord]{
			Canonical:      speakers[best],
			CanonicalIndex: len(result.Canonical),
			Duplicates:     rest,
			Reason:         fmt.Sprintf("Exact canonical key match (%s)", b.key.Key),
			Confidence:     GenerateSpeakerKey(speakers[best]).Confidence,
		})
		result.Canonical = append(result.Canonical, speakers[best])
	}

	result.Stats = newStats(len(speakers), len(result.Canonical))
	return result
}
