package pipeline

import (
	"github.com/desertlark/listenlog/internal/services"
)

// joinKey is the declared natural key for matching a play event with its
// feature record. DurationMS disambiguates track ids reused across edits
// (remasters ship the same id with a different duration).
type joinKey struct {
	trackID    string
	durationMS int
}

// JoinResult holds the joined records plus the count of history rows that
// found no feature match. Dropped rows are an expected outcome, surfaced
// for diagnosability rather than raised as errors.
type JoinResult struct {
	Records []services.TrackRecord
	Dropped int
}

// Join performs a stable inner join of history against features on
// (track_id, duration_ms). Output order follows history order, and repeated
// history rows each join independently against the single matching feature
// record; there is no deduplication beyond the natural key.
func Join(history []services.PlayEvent, features []services.AudioFeatures) JoinResult {
	byKey := make(map[joinKey]services.AudioFeatures, len(features))
	for _, f := range features {
		k := joinKey{trackID: f.TrackID, durationMS: f.DurationMS}
		if _, seen := byKey[k]; !seen {
			byKey[k] = f
		}
	}

	result := JoinResult{Records: make([]services.TrackRecord, 0, len(history))}
	for _, event := range history {
		f, ok := byKey[joinKey{trackID: event.TrackID, durationMS: event.DurationMS}]
		if !ok {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, services.TrackRecord{PlayEvent: event, Features: f})
	}

	return result
}

// DistinctTrackIDs returns the unique track ids from history, preserving
// first-occurrence order.
func DistinctTrackIDs(history []services.PlayEvent) []string {
	seen := make(map[string]struct{}, len(history))
	ids := make([]string, 0, len(history))
	for _, event := range history {
		if _, ok := seen[event.TrackID]; ok {
			continue
		}
		seen[event.TrackID] = struct{}{}
		ids = append(ids, event.TrackID)
	}
	return ids
}
