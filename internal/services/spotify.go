// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/desertlark/listenlog/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	recentlyPlayedEndpoint = "/me/player/recently-played"
	audioFeaturesEndpoint  = "/audio-features"

	// provider limits
	maxHistoryLimit     = 50
	maxIDsPerRequest    = 100
	defaultHistoryLimit = 20
)

// spotifyArtist carries only the artist id; every other artist field is
// dropped during normalization.
type spotifyArtist struct {
	ID string `json:"id"`
}

// spotifyAlbum mirrors the nested album object on a track.
type spotifyAlbum struct {
	AlbumType            string `json:"album_type"`
	Name                 string `json:"name"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"`
	TotalTracks          int    `json:"total_tracks"`
	Type                 string `json:"type"`
}

// spotifyTrack mirrors the nested track object on a play history item.
type spotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DurationMS  int             `json:"duration_ms"`
	Popularity  int             `json:"popularity"`
	DiscNumber  int             `json:"disc_number"`
	TrackNumber int             `json:"track_number"`
	Type        string          `json:"type"`
	Album       spotifyAlbum    `json:"album"`
	Artists     []spotifyArtist `json:"artists"`
}

type playHistoryItem struct {
	Track    spotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
}

// recentlyPlayedResponse uses a pointer slice so a body without the items
// key is distinguishable from an empty history.
type recentlyPlayedResponse struct {
	Items *[]playHistoryItem `json:"items"`
}

// audioFeaturesResponse is positionally aligned with the requested ids;
// unrecognized ids arrive as JSON nulls.
type audioFeaturesResponse struct {
	AudioFeatures *[]*AudioFeatures `json:"audio_features"`
}

// SpotifyService implements [Service] against the Spotify Web API.
type SpotifyService struct {
	transport *Transport
	chunkSize int
}

// SpotifyOpts configures a SpotifyService. MaxRetries and RateLimit only
// apply when no Transport is supplied.
type SpotifyOpts struct {
	Transport  *Transport
	ChunkSize  int // ids per audio-features request, capped at the provider's 100
	MaxRetries int
	RateLimit  float64
}

// NewSpotifyService creates a Spotify service on the given transport.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.Transport == nil {
		opts.Transport = NewTransport(TransportOpts{
			BaseURL:    spotifyBaseURL,
			MaxRetries: opts.MaxRetries,
			RateLimit:  opts.RateLimit,
		})
	}
	if opts.ChunkSize <= 0 || opts.ChunkSize > maxIDsPerRequest {
		opts.ChunkSize = maxIDsPerRequest
	}

	return &SpotifyService{
		transport: opts.Transport,
		chunkSize: opts.ChunkSize,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// RecentlyPlayed issues one authenticated GET to the history endpoint and
// flattens each nested track into a [PlayEvent], order preserved as
// delivered.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, cred Credential, limit int) (*HistoryResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	raw, err := s.transport.Get(ctx, recentlyPlayedEndpoint, cred, map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	events, err := normalizeHistory(raw)
	if err != nil {
		return nil, err
	}

	return &HistoryResult{Raw: raw, Events: events}, nil
}

// TrackFeatures retrieves audio features for the given ids, issuing one
// request per chunk of at most the configured chunk size and concatenating
// results in chunk order. Null placeholders for unrecognized ids are
// filtered out. Any chunk failing fails the whole fetch; nothing partial
// is returned.
func (s *SpotifyService) TrackFeatures(ctx context.Context, cred Credential, ids []string) (*FeaturesResult, error) {
	result := &FeaturesResult{}
	if len(ids) == 0 {
		return result, nil
	}

	for start := 0; start < len(ids); start += s.chunkSize {
		end := min(start+s.chunkSize, len(ids))
		chunk := ids[start:end]

		raw, err := s.transport.Get(ctx, audioFeaturesEndpoint, cred, map[string]string{
			"ids": strings.Join(chunk, ","),
		})
		if err != nil {
			return nil, err
		}

		features, err := normalizeFeatures(raw)
		if err != nil {
			return nil, err
		}

		result.Raw = append(result.Raw, raw)
		result.Features = append(result.Features, features...)
	}

	return result, nil
}

// normalizeHistory flattens the raw history body into play events. The
// track's scalar and album fields become top-level record fields; the
// variable-length artists sequence collapses into an ordered id slice
// rather than expanding into extra rows.
func normalizeHistory(raw []byte) ([]PlayEvent, error) {
	var resp recentlyPlayedResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Items == nil {
		return nil, &shared.ParseError{Endpoint: recentlyPlayedEndpoint, Missing: "items"}
	}

	events := make([]PlayEvent, 0, len(*resp.Items))
	for _, item := range *resp.Items {
		events = append(events, flattenTrack(item.Track))
	}

	return events, nil
}

func flattenTrack(t spotifyTrack) PlayEvent {
	artistIDs := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artistIDs = append(artistIDs, a.ID)
	}

	return PlayEvent{
		TrackID:     t.ID,
		DurationMS:  t.DurationMS,
		Name:        t.Name,
		Popularity:  t.Popularity,
		DiscNumber:  t.DiscNumber,
		TrackNumber: t.TrackNumber,
		Type:        t.Type,
		Album: AlbumInfo{
			AlbumType:            t.Album.AlbumType,
			Name:                 t.Album.Name,
			ReleaseDate:          t.Album.ReleaseDate,
			ReleaseDatePrecision: t.Album.ReleaseDatePrecision,
			TotalTracks:          t.Album.TotalTracks,
			Type:                 t.Album.Type,
		},
		ArtistIDs: artistIDs,
	}
}

// normalizeFeatures decodes one audio-features chunk, dropping null
// positions instead of materializing empty records.
func normalizeFeatures(raw []byte) ([]AudioFeatures, error) {
	var resp audioFeaturesResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.AudioFeatures == nil {
		return nil, &shared.ParseError{Endpoint: audioFeaturesEndpoint, Missing: "audio_features"}
	}

	features := make([]AudioFeatures, 0, len(*resp.AudioFeatures))
	for _, f := range *resp.AudioFeatures {
		if f == nil {
			continue
		}
		features = append(features, *f)
	}

	return features, nil
}
