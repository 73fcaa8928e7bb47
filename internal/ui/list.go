package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [services.TrackRecord] to implement [list.Item].
type trackItem struct {
	record services.TrackRecord
}

func (i trackItem) FilterValue() string { return i.record.Name }
func (i trackItem) Title() string       { return i.record.Name }
func (i trackItem) Description() string {
	desc := shared.FormatDuration(i.record.DurationMS)
	if i.record.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.record.Album.Name)
	}
	if len(i.record.ArtistIDs) > 0 {
		desc = fmt.Sprintf("%s • %d artist(s)", desc, len(i.record.ArtistIDs))
	}
	return desc
}

// featureLines formats one record's audio features for the detail view.
func featureLines(rec services.TrackRecord) string {
	f := rec.Features
	var b strings.Builder

	fmt.Fprintf(&b, "Tempo:            %.1f BPM\n", f.Tempo)
	fmt.Fprintf(&b, "Key / Mode:       %d / %d\n", f.Key, f.Mode)
	fmt.Fprintf(&b, "Time Signature:   %d\n", f.TimeSignature)
	fmt.Fprintf(&b, "Loudness:         %.2f dB\n", f.Loudness)
	fmt.Fprintf(&b, "Danceability:     %.3f\n", f.Danceability)
	fmt.Fprintf(&b, "Energy:           %.3f\n", f.Energy)
	fmt.Fprintf(&b, "Valence:          %.3f\n", f.Valence)
	fmt.Fprintf(&b, "Acousticness:     %.3f\n", f.Acousticness)
	fmt.Fprintf(&b, "Instrumentalness: %.3f\n", f.Instrumentalness)
	fmt.Fprintf(&b, "Liveness:         %.3f\n", f.Liveness)
	fmt.Fprintf(&b, "Speechiness:      %.3f\n", f.Speechiness)

	return b.String()
}
