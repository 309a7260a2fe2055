package pipeline

import (
	"strings"

	"eventguard/deduplication"
	"eventguard/types"
)

// MergeDuplicateSpeakers returns the canonical events of result with the speakers of
// their duplicates folded in. The canonical's own speakers come first; speakers of
// duplicates are appended when their speaker key is new. Input records are not modified.
func MergeDuplicateSpeakers(result deduplication.DeduplicationResult[types.EventRecord]) []types.EventRecord {
	merged := append(make([]types.EventRecord, 0, len(result.Canonical)), result.Canonical...)
	for _, group := range result.Duplicates {
		if group.CanonicalIndex < 0 || group.CanonicalIndex >= len(merged) {
			continue
		}
		merged[group.CanonicalIndex] = mergeGroup(group)
	}
	return merged
}

func mergeGroup(group deduplication.DuplicateGroup[types.EventRecord]) types.EventRecord {
	out := group.Canonical
	out.Speakers = append([]types.Speaker(nil), group.Canonical.Speakers...)

	keys := make(map[string]bool, len(out.Speakers))
	for _, s := range out.Speakers {
		keys[speakerKey(s)] = true
	}
	for _, d := range group.Duplicates {
		for _, s := range d.Speakers {
			key := speakerKey(s)
			// unnamed speakers cannot be matched, only the canonical's own are kept
			if strings.HasPrefix(key, "|") || keys[key] {
				continue
			}
			keys[key] = true
			out.Speakers = append(out.Speakers, s)
		}
	}
	return out
}

func speakerKey(s types.Speaker) string {
	return deduplication.GenerateSpeakerKey(types.SpeakerRecord{Name: s.Name, Org: s.Org}).Key
}
