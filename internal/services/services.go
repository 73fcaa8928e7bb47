package services

import (
	"context"
	"time"
)

// Service defines the provider operations the pipeline consumes.
//
// Implementations return the verbatim response bodies alongside the
// normalized records so callers can snapshot raw payloads before any
// reshaping happens.
type Service interface {
	// Name returns the name of the provider (e.g., "Spotify")
	Name() string

	// RecentlyPlayed retrieves the user's recent play events, most recent
	// first as delivered by the provider.
	RecentlyPlayed(ctx context.Context, cred Credential, limit int) (*HistoryResult, error)

	// TrackFeatures retrieves audio features for the given track ids,
	// chunking requests to the provider's per-request id limit.
	TrackFeatures(ctx context.Context, cred Credential, ids []string) (*FeaturesResult, error)
}

// Credential is the access credential produced by one authorization-code
// exchange. It is a plain value: created once per run, read-only afterward,
// and never persisted by this package.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scope        string
}

// Valid reports whether the credential can authenticate a request.
// An empty access token is never usable, regardless of how it was produced.
func (c Credential) Valid() bool {
	return c.AccessToken != ""
}

// AuthorizationRequest is the outcome of starting an authorization flow:
// the provider URL the user must visit and the state token that the
// redirect must echo back.
type AuthorizationRequest struct {
	URL   string
	State string
}

// AlbumInfo holds the album fields retained from a play event's track,
// exported under dotted "album." column names.
type AlbumInfo struct {
	AlbumType            string `json:"album_type"`
	Name                 string `json:"name"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"`
	TotalTracks          int    `json:"total_tracks"`
	Type                 string `json:"type"`
}

// PlayEvent is one listening occurrence, flattened from the provider's
// nested item. A play event has exactly one track; the track's artists
// collapse into ArtistIDs in provider order, primary artist first.
type PlayEvent struct {
	TrackID     string
	DurationMS  int
	Name        string
	Popularity  int
	DiscNumber  int
	TrackNumber int
	Type        string
	Album       AlbumInfo
	ArtistIDs   []string
}

// AudioFeatures holds the provider-computed acoustic descriptors for one
// track. DurationMS participates in the join key together with TrackID.
type AudioFeatures struct {
	TrackID          string  `json:"id"`
	DurationMS       int     `json:"duration_ms"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	TimeSignature    int     `json:"time_signature"`
}

// TrackRecord is the terminal artifact: one play event joined with its
// matching audio features on (TrackID, DurationMS).
type TrackRecord struct {
	PlayEvent
	Features AudioFeatures
}

// HistoryResult pairs the verbatim history response with the normalized
// play events.
type HistoryResult struct {
	Raw    []byte
	Events []PlayEvent
}

// FeaturesResult pairs the verbatim per-chunk response bodies with the
// concatenated feature records. Raw holds one body per issued request, in
// chunk order.
type FeaturesResult struct {
	Raw      [][]byte
	Features []AudioFeatures
}
