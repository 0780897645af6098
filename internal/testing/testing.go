// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/muzicc987/navimax/internal/models"
)

// MockService is a test double for the server-side playlist operations: sync, export and share.
//
// Calls are counted so tests can assert that an action reached the server exactly once.
type MockService struct {
	mu sync.Mutex

	Playlists []models.Playlist
	Export    []byte
	ShareURL  string

	SyncErr   error
	ExportErr error
	ShareErr  error
	ListErr   error

	// Gate, when set, blocks SyncExternalPlaylist until it is closed.
	Gate chan struct{}

	SyncCalls   []string
	ExportCalls []string
	ShareCalls  []string
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Playlists, nil
}

func (m *MockService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for _, p := range m.Playlists {
		if p.ID == playlistID {
			return &p, nil
		}
	}
	return nil, errors.New("playlist not found")
}

func (m *MockService) SyncExternalPlaylist(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	m.SyncCalls = append(m.SyncCalls, playlistID)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.SyncErr
}

func (m *MockService) ExportPlaylist(ctx context.Context, playlistID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExportCalls = append(m.ExportCalls, playlistID)
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.Export, nil
}

func (m *MockService) CreateShare(ctx context.Context, playlist models.Playlist, description string) (*models.Share, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShareCalls = append(m.ShareCalls, playlist.ID)
	if m.ShareErr != nil {
		return nil, m.ShareErr
	}
	return &models.Share{
		ID:           "share-" + playlist.ID,
		URL:          m.ShareURL,
		ResourceType: "playlist",
		ResourceIDs:  []string{playlist.ID},
		Description:  description,
	}, nil
}

// SyncCount returns the number of sync requests received so far.
func (m *MockService) SyncCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SyncCalls)
}

// MockQueue records every queue command it is asked to apply.
type MockQueue struct {
	mu       sync.Mutex
	Err      error
	Commands []models.QueueCommand
}

func (q *MockQueue) Apply(cmd models.QueueCommand) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Commands = append(q.Commands, cmd)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
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

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
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
