package deduplication

import (
	"fmt"
	"strings"

	"eventguard/types"
)

// LevenshteinThreshold is the minimum weighted similarity for two events to cluster
const LevenshteinThreshold = 0.8

// Canonical selection points awarded to a challenger over the current best
const (
	httpsPoints         = 10
	institutionalPoints = 5
	laterStartPoints    = 3
	confidencePoints    = 2
)

var institutionalSuffixes = []string{".org", ".edu", ".gov"}

// DetectNearDuplicateEvents clusters near-identical events and picks one canonical per cluster.
//
// Clustering is greedy and seed-anchored: each unprocessed event in input order seeds a
// cluster and every later unprocessed event is compared against that seed only. The
// reported group confidence is the similarity of the seed's last comparison.
func DetectNearDuplicateEvents(events []types.EventRecord) DeduplicationResult[types.EventRecord] {
	result := DeduplicationResult[types.EventRecord]{
		Canonical:  make([]types.EventRecord, 0, len(events)),
		Duplicates: make([]DuplicateGroup[types.EventRecord], 0),
	}

	processed := make([]bool, len(events))
	for i := range events {
		if processed[i] {
			continue
		}
		processed[i] = true

		cluster := []types.EventRecord{events[i]}
		var similarity float64
		for j := i + 1; j < len(events); j++ {
			if processed[j] {
				continue
			}
			similarity = EventSimilarity(events[i], events[j])
			if similarity >= LevenshteinThreshold {
				cluster = append(cluster, events[j])
				processed[j] = true
			}
		}

		if len(cluster) == 1 {
			result.Canonical = append(result.Canonical, events[i])
			continue
		}

		best := SelectCanonical(cluster)
		rest := make([]types.EventRecord, 0, len(cluster)-1)
		for k := range cluster {
			if k != best {
				rest = append(rest, cluster[k])
			}
		}

		result.Duplicates = append(result.Duplicates, DuplicateGroup[types.EventRecord]{
			Canonical:      cluster[best],
			CanonicalIndex: len(result.Canonical),
			Duplicates:     rest,
			Reason:         fmt.Sprintf("Near-duplicate detected (similarity: %.2f)", similarity),
			Confidence:     similarity,
		})
		result.Canonical = append(result.Canonical, cluster[best])
	}

	result.Stats = newStats(len(events), len(result.Canonical))
	return result
}

// SelectCanonical returns the index of the best representative of group.
// A challenger replaces the running best only when its net score is positive,
// so the first-seen record wins ties. Returns -1 for an empty group.
func SelectCanonical(group []types.EventRecord) int {
	if len(group) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(group); i++ {
		if challengeScore(group[i], group[best]) > 0 {
			best = i
		}
	}
	return best
}

// challengeScore is the net number of points challenger earns against best
func challengeScore(challenger, best types.EventRecord) int {
	score := 0

	score += pointsFor(IsHTTPS(challenger.SourceURL), IsHTTPS(best.SourceURL), httpsPoints)
	score += pointsFor(isInstitutional(challenger.SourceURL), isInstitutional(best.SourceURL), institutionalPoints)

	if ct, ok := ParseDate(challenger.StartsAt); ok {
		if bt, ok := ParseDate(best.StartsAt); ok {
			switch {
			case ct.After(bt):
				score += laterStartPoints
			case ct.Before(bt):
				score -= laterStartPoints
			}
		}
	}

	cc, bc := valueOf(challenger.Confidence), valueOf(best.Confidence)
	switch {
	case cc > bc:
		score += confidencePoints
	case cc < bc:
		score -= confidencePoints
	}

	return score
}

func pointsFor(challenger, best bool, points int) int {
	switch {
	case challenger && !best:
		return points
	case !challenger && best:
		return -points
	default:
		return 0
	}
}

func isInstitutional(rawURL string) bool {
	host := Domain(rawURL)
	for _, suffix := range institutionalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

func valueOf(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
