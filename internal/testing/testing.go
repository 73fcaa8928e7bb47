// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertlark/listenlog/internal/services"
)

// MockService is a test double for [services.Service] with pluggable
// behavior per method.
type MockService struct {
	RecentlyPlayedFunc func(ctx context.Context, cred services.Credential, limit int) (*services.HistoryResult, error)
	TrackFeaturesFunc  func(ctx context.Context, cred services.Credential, ids []string) (*services.FeaturesResult, error)
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) RecentlyPlayed(ctx context.Context, cred services.Credential, limit int) (*services.HistoryResult, error) {
	if m.RecentlyPlayedFunc == nil {
		return &services.HistoryResult{}, nil
	}
	return m.RecentlyPlayedFunc(ctx, cred, limit)
}

func (m *MockService) TrackFeatures(ctx context.Context, cred services.Credential, ids []string) (*services.FeaturesResult, error) {
	if m.TrackFeaturesFunc == nil {
		return &services.FeaturesResult{}, nil
	}
	return m.TrackFeaturesFunc(ctx, cred, ids)
}

// SnapshotRecorder is an in-memory [pipeline.SnapshotWriter] that records
// every write instead of touching disk.
type SnapshotRecorder struct {
	History  [][]byte
	Chunks   [][]byte
	Datasets [][]services.TrackRecord
	Err      error // returned by every write when set
}

func (s *SnapshotRecorder) WriteHistorySnapshot(raw []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.History = append(s.History, raw)
	return "history.json", nil
}

func (s *SnapshotRecorder) WriteFeaturesSnapshot(chunk int, raw []byte) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Chunks = append(s.Chunks, raw)
	return "features.json", nil
}

func (s *SnapshotRecorder) WriteDataset(records []services.TrackRecord) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Datasets = append(s.Datasets, records)
	return "dataset.csv", nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
