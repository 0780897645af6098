package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
	tu "github.com/muzicc987/navimax/internal/testing"
)

type fakeSource struct {
	mu     sync.Mutex
	tracks []models.Track
	err    error
	calls  []services.ListOptions
}

func (f *fakeSource) ListPlaylistTracks(ctx context.Context, playlistID string, opts services.ListOptions) ([]models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = models.Track{ID: id, MediaFileID: "mf-" + id, Title: "Song " + id, Artist: "Artist", Duration: 180}
	}
	return out
}

func localPlaylist(songs int) models.Playlist {
	return models.Playlist{ID: "pl-1", Name: "Road Trip", SongCount: songs, OwnerName: "alice"}
}

func externalPlaylist() models.Playlist {
	return models.Playlist{
		ID:            "pl-ext",
		Name:          "Discover Weekly",
		SongCount:     2,
		ExternalAgent: "spotify",
		ExternalURL:   "https://open.spotify.com/playlist/abc",
	}
}

func TestResolver(t *testing.T) {
	t.Run("complete loaded set skips the fetch", func(t *testing.T) {
		source := &fakeSource{tracks: tracks("1", "2", "3")}
		loaded := models.NewTrackSet(tracks("1", "2", "3"))

		set, err := NewResolver(source, nil).Resolve(context.Background(), localPlaylist(3), loaded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if source.callCount() != 0 {
			t.Errorf("expected no fetch, got %d", source.callCount())
		}
		if !slices.Equal(set.IDs, loaded.IDs) {
			t.Errorf("IDs = %v, want %v", set.IDs, loaded.IDs)
		}
	})

	t.Run("empty playlist with nothing loaded skips the fetch", func(t *testing.T) {
		source := &fakeSource{}
		set, err := NewResolver(source, nil).Resolve(context.Background(), localPlaylist(0), models.TrackSet{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if source.callCount() != 0 || set.Len() != 0 {
			t.Errorf("calls = %d, len = %d", source.callCount(), set.Len())
		}
	})

	t.Run("partial set fetches once and orders by membership", func(t *testing.T) {
		source := &fakeSource{tracks: tracks("10", "2", "1", "3")}
		loaded := models.NewTrackSet(tracks("1", "2"))

		set, err := NewResolver(source, nil).Resolve(context.Background(), localPlaylist(4), loaded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if source.callCount() != 1 {
			t.Fatalf("expected one fetch, got %d", source.callCount())
		}
		if source.calls[0].Paged() {
			t.Errorf("fetch should be unpaginated, got %+v", source.calls[0])
		}

		want := []string{"1", "2", "3", "10"}
		if !slices.Equal(set.IDs, want) {
			t.Errorf("IDs = %v, want %v", set.IDs, want)
		}
		if set.Tracks["10"].Title != "Song 10" {
			t.Errorf("missing mapping for 10: %+v", set.Tracks)
		}
		if source.tracks[0].ID != "10" {
			t.Error("resolver must not reorder the source's slice")
		}
	})

	t.Run("count mismatch still resolves", func(t *testing.T) {
		source := &fakeSource{tracks: tracks("1", "2")}
		set, err := NewResolver(source, nil).Resolve(context.Background(), localPlaylist(5), models.TrackSet{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Len() != 2 {
			t.Errorf("len = %d, want 2", set.Len())
		}
	})

	t.Run("fetch failure fails the whole resolution", func(t *testing.T) {
		source := &fakeSource{err: errors.New("connection reset")}
		set, err := NewResolver(source, nil).Resolve(context.Background(), localPlaylist(4), models.NewTrackSet(tracks("1")))
		if !errors.Is(err, shared.ErrResolution) {
			t.Fatalf("expected ErrResolution, got %v", err)
		}
		if set.Len() != 0 {
			t.Errorf("expected no partial set, got %v", set.IDs)
		}
	})
}

func TestDispatch(t *testing.T) {
	set := models.NewTrackSet(tracks("1", "2", "3"))

	for _, action := range []models.QueueAction{models.Play, models.Shuffle, models.PlayNext, models.Enqueue} {
		t.Run(action.String(), func(t *testing.T) {
			cmd := Dispatch(action, set)
			if cmd.Action != action {
				t.Errorf("Action = %v, want %v", cmd.Action, action)
			}
			if !slices.Equal(cmd.IDs, set.IDs) {
				t.Errorf("IDs = %v, want %v", cmd.IDs, set.IDs)
			}
			if len(cmd.Tracks) != 3 {
				t.Errorf("expected 3 tracks, got %d", len(cmd.Tracks))
			}
			if cmd.ID == "" {
				t.Error("expected a command ID")
			}
		})
	}

	t.Run("commands get distinct IDs", func(t *testing.T) {
		a, b := Dispatch(models.Play, set), Dispatch(models.Play, set)
		if a.ID == b.ID {
			t.Errorf("IDs should differ, both %s", a.ID)
		}
	})

	t.Run("command does not alias the set", func(t *testing.T) {
		local := models.NewTrackSet(tracks("1", "2"))
		cmd := Dispatch(models.Enqueue, local)
		local.IDs[0] = "changed"
		delete(local.Tracks, "2")

		if cmd.IDs[0] != "1" || len(cmd.Tracks) != 2 {
			t.Errorf("command changed with its input: %+v", cmd)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		cmd := Dispatch(models.Play, models.TrackSet{})
		if len(cmd.IDs) != 0 || len(cmd.Tracks) != 0 {
			t.Errorf("expected an empty command, got %+v", cmd)
		}
	})
}

func newActions(t *testing.T, playlist models.Playlist, source *fakeSource, deps Deps) (*PlaylistActions, *tu.MockQueue, *notify.Recorder) {
	t.Helper()
	store := &tu.MockQueue{}
	rec := &notify.Recorder{}
	deps.Tracks = source
	deps.Store = store
	deps.Notifier = rec

	actions, err := NewPlaylistActions(playlist, deps)
	if err != nil {
		t.Fatalf("NewPlaylistActions: %v", err)
	}
	return actions, store, rec
}

func TestPlaylistActions(t *testing.T) {
	ctx := context.Background()

	t.Run("each action emits exactly one command", func(t *testing.T) {
		tests := []struct {
			name   string
			run    func(*PlaylistActions, models.TrackSet) (models.QueueCommand, error)
			action models.QueueAction
		}{
			{"play", func(a *PlaylistActions, s models.TrackSet) (models.QueueCommand, error) { return a.Play(ctx, s) }, models.Play},
			{"shuffle", func(a *PlaylistActions, s models.TrackSet) (models.QueueCommand, error) { return a.Shuffle(ctx, s) }, models.Shuffle},
			{"play next", func(a *PlaylistActions, s models.TrackSet) (models.QueueCommand, error) { return a.PlayNext(ctx, s) }, models.PlayNext},
			{"enqueue", func(a *PlaylistActions, s models.TrackSet) (models.QueueCommand, error) { return a.Enqueue(ctx, s) }, models.Enqueue},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				source := &fakeSource{tracks: tracks("2", "1", "3")}
				actions, store, _ := newActions(t, localPlaylist(3), source, Deps{})

				cmd, err := tt.run(actions, models.NewTrackSet(tracks("1")))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(store.Commands) != 1 {
					t.Fatalf("expected 1 command, got %d", len(store.Commands))
				}
				if store.Commands[0].ID != cmd.ID || cmd.Action != tt.action {
					t.Errorf("command = %+v", store.Commands[0])
				}
				if !slices.Equal(cmd.IDs, []string{"1", "2", "3"}) {
					t.Errorf("IDs = %v", cmd.IDs)
				}
			})
		}
	})

	t.Run("complete set dispatches without fetching", func(t *testing.T) {
		source := &fakeSource{}
		actions, store, _ := newActions(t, localPlaylist(2), source, Deps{})

		if _, err := actions.Play(ctx, models.NewTrackSet(tracks("1", "2"))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if source.callCount() != 0 {
			t.Errorf("expected no fetch, got %d", source.callCount())
		}
		if len(store.Commands) != 1 {
			t.Errorf("expected 1 command, got %d", len(store.Commands))
		}
	})

	t.Run("resolution failure dispatches nothing", func(t *testing.T) {
		source := &fakeSource{err: errors.New("timeout")}
		actions, store, rec := newActions(t, localPlaylist(5), source, Deps{})

		_, err := actions.Enqueue(ctx, models.NewTrackSet(tracks("1")))
		if !errors.Is(err, shared.ErrResolution) {
			t.Fatalf("expected ErrResolution, got %v", err)
		}
		if len(store.Commands) != 0 {
			t.Errorf("expected no commands, got %d", len(store.Commands))
		}
		last, ok := rec.Last()
		if !ok || last.Key != notify.ListFetchError || last.Level != notify.Warning {
			t.Errorf("expected list-fetch-error warning, got %+v", last)
		}
	})

	t.Run("store failure is returned", func(t *testing.T) {
		source := &fakeSource{}
		store := &tu.MockQueue{Err: errors.New("disk full")}
		actions, err := NewPlaylistActions(localPlaylist(0), Deps{Tracks: source, Store: store, Notifier: &notify.Recorder{}})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := actions.Play(ctx, models.TrackSet{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing collaborators", func(t *testing.T) {
		if _, err := NewPlaylistActions(localPlaylist(1), Deps{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := NewPlaylistActions(models.Playlist{}, Deps{Tracks: &fakeSource{}, Store: &tu.MockQueue{}}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("sync session only for external playlists", func(t *testing.T) {
		svc := &tu.MockService{}
		local, _, _ := newActions(t, localPlaylist(1), &fakeSource{}, Deps{Syncer: svc})
		if local.Sync() != nil {
			t.Error("local playlist should have no sync session")
		}

		ext, _, _ := newActions(t, externalPlaylist(), &fakeSource{}, Deps{Syncer: svc})
		if ext.Sync() == nil {
			t.Error("external playlist should have a sync session")
		}
	})

	t.Run("open original", func(t *testing.T) {
		var opened string
		open := func(url string) error { opened = url; return nil }

		ext, _, _ := newActions(t, externalPlaylist(), &fakeSource{}, Deps{OpenURL: open})
		if err := ext.OpenOriginal(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opened != externalPlaylist().ExternalURL {
			t.Errorf("opened %q", opened)
		}

		local, _, _ := newActions(t, localPlaylist(1), &fakeSource{}, Deps{OpenURL: open})
		if err := local.OpenOriginal(); !errors.Is(err, shared.ErrNotExternal) {
			t.Errorf("expected ErrNotExternal, got %v", err)
		}
	})

	t.Run("size label", func(t *testing.T) {
		pl := localPlaylist(1)
		pl.Size = 12 * 1000 * 1000
		actions, _, _ := newActions(t, pl, &fakeSource{}, Deps{})
		if got := actions.SizeLabel(); got != "Download (12 MB)" {
			t.Errorf("SizeLabel() = %q", got)
		}
	})
}

type countingRefresher struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *countingRefresher) Refresh(ctx context.Context, playlistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, playlistID)
	return r.err
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func TestSyncSession(t *testing.T) {
	ctx := context.Background()

	newSession := func(t *testing.T, svc *tu.MockService, ref Refresher) (*SyncSession, *notify.Recorder) {
		t.Helper()
		rec := &notify.Recorder{}
		s, err := NewSyncSession(externalPlaylist(), svc, ref, rec, nil)
		if err != nil {
			t.Fatalf("NewSyncSession: %v", err)
		}
		return s, rec
	}

	t.Run("rejects local playlists", func(t *testing.T) {
		_, err := NewSyncSession(localPlaylist(1), &tu.MockService{}, nil, nil, nil)
		if !errors.Is(err, shared.ErrNotExternal) {
			t.Errorf("expected ErrNotExternal, got %v", err)
		}
	})

	t.Run("request and cancel never reach the server", func(t *testing.T) {
		svc := &tu.MockService{}
		s, _ := newSession(t, svc, nil)

		if !s.Request() {
			t.Fatal("Request should open the confirmation")
		}
		if s.Phase() != Confirming || !s.Disabled() {
			t.Errorf("phase = %v, disabled = %v", s.Phase(), s.Disabled())
		}
		if !s.Cancel() {
			t.Fatal("Cancel should close the confirmation")
		}
		if s.Phase() != Idle || s.Disabled() {
			t.Errorf("phase = %v, disabled = %v", s.Phase(), s.Disabled())
		}
		if svc.SyncCount() != 0 {
			t.Errorf("expected no sync request, got %d", svc.SyncCount())
		}
		if s.Cancel() {
			t.Error("Cancel from Idle should be ignored")
		}
	})

	t.Run("success notifies and refreshes", func(t *testing.T) {
		svc := &tu.MockService{}
		ref := &countingRefresher{}
		s, rec := newSession(t, svc, ref)

		var phases []SyncPhase
		var mu sync.Mutex
		s.OnChange(func(p SyncPhase) {
			mu.Lock()
			defer mu.Unlock()
			phases = append(phases, p)
		})

		s.Request()
		done, ok := s.Confirm(ctx)
		if !ok {
			t.Fatal("Confirm should start the sync")
		}
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if svc.SyncCount() != 1 {
			t.Errorf("expected 1 sync request, got %d", svc.SyncCount())
		}
		if ref.count() != 1 || ref.ids[0] != "pl-ext" {
			t.Errorf("refresh calls = %v", ref.ids)
		}
		if !slices.Equal(rec.Keys(), []notify.Key{notify.SyncSuccess}) {
			t.Errorf("notifications = %v", rec.Keys())
		}
		if s.Phase() != Idle {
			t.Errorf("phase = %v, want idle", s.Phase())
		}

		mu.Lock()
		defer mu.Unlock()
		if !slices.Equal(phases, []SyncPhase{Confirming, Syncing, Idle}) {
			t.Errorf("phases = %v", phases)
		}
	})

	t.Run("failure carries the server message", func(t *testing.T) {
		svc := &tu.MockService{SyncErr: &services.HTTPError{StatusCode: 500, Status: "500 Internal Server Error", Message: "agent unavailable"}}
		ref := &countingRefresher{}
		s, rec := newSession(t, svc, ref)

		err := s.Run(ctx)
		if err == nil {
			t.Fatal("expected error")
		}
		last, _ := rec.Last()
		if last.Key != notify.SyncError || last.Level != notify.Warning {
			t.Errorf("notification = %+v", last)
		}
		if last.Params["error"] != "agent unavailable" {
			t.Errorf("error param = %q", last.Params["error"])
		}
		if ref.count() != 0 {
			t.Error("refresh must not run after a failed sync")
		}
		if s.Phase() != Idle || s.Disabled() {
			t.Errorf("session should be idle again, got %v", s.Phase())
		}
	})

	t.Run("refresh failure does not fail the sync", func(t *testing.T) {
		svc := &tu.MockService{}
		s, rec := newSession(t, svc, &countingRefresher{err: errors.New("cache locked")})

		if err := s.Run(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(rec.Keys(), []notify.Key{notify.SyncSuccess}) {
			t.Errorf("notifications = %v", rec.Keys())
		}
	})

	t.Run("second confirm while syncing is ignored", func(t *testing.T) {
		svc := &tu.MockService{Gate: make(chan struct{})}
		s, _ := newSession(t, svc, nil)

		done, ok := s.Confirm(ctx)
		if !ok {
			t.Fatal("first Confirm should start the sync")
		}
		if s.Phase() != Syncing || !s.Disabled() {
			t.Errorf("phase = %v", s.Phase())
		}
		if _, ok := s.Confirm(ctx); ok {
			t.Error("second Confirm should be ignored")
		}
		if s.Request() {
			t.Error("Request while syncing should be ignored")
		}
		if err := s.Run(ctx); !errors.Is(err, shared.ErrSyncInProgress) {
			t.Errorf("expected ErrSyncInProgress, got %v", err)
		}

		close(svc.Gate)
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.SyncCount() != 1 {
			t.Errorf("expected 1 sync request, got %d", svc.SyncCount())
		}
	})

	t.Run("concurrent confirms issue one request", func(t *testing.T) {
		svc := &tu.MockService{Gate: make(chan struct{})}
		s, _ := newSession(t, svc, nil)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			started []<-chan error
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if done, ok := s.Confirm(ctx); ok {
					mu.Lock()
					started = append(started, done)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		close(svc.Gate)

		if len(started) != 1 {
			t.Fatalf("expected exactly one sync to start, got %d", len(started))
		}
		<-started[0]
		if svc.SyncCount() != 1 {
			t.Errorf("expected 1 sync request, got %d", svc.SyncCount())
		}
	})

	t.Run("cancelled context returns to idle", func(t *testing.T) {
		svc := &tu.MockService{Gate: make(chan struct{})}
		s, rec := newSession(t, svc, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done, _ := s.Confirm(ctx)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("sync did not stop after cancellation")
		}
		if s.Phase() != Idle {
			t.Errorf("phase = %v", s.Phase())
		}
		if last, _ := rec.Last(); last.Key != notify.SyncError {
			t.Errorf("notification = %+v", last)
		}
	})
}

func TestExportRequester(t *testing.T) {
	ctx := context.Background()

	t.Run("server export", func(t *testing.T) {
		dir := t.TempDir()
		svc := &tu.MockService{Export: []byte("#EXTM3U\n/music/a.mp3\n")}
		rec := &notify.Recorder{}
		req := NewExportRequester(svc, nil, rec, nil, dir)

		path, err := req.Export(ctx, localPlaylist(1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(dir, "Road Trip.m3u"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}
		tu.AssertFileExists(t, path)
		if got := tu.MustReadFile(t, path); got != string(svc.Export) {
			t.Errorf("content = %q", got)
		}
		last, _ := rec.Last()
		if last.Key != notify.ExportSuccess || last.Params["path"] != path {
			t.Errorf("notification = %+v", last)
		}
	})

	t.Run("server failure writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		svc := &tu.MockService{ExportErr: &services.HTTPError{StatusCode: 403, Status: "403 Forbidden", Message: "not allowed"}}
		rec := &notify.Recorder{}
		req := NewExportRequester(svc, nil, rec, nil, dir)

		_, err := req.Export(ctx, localPlaylist(1))
		if !errors.Is(err, shared.ErrExport) {
			t.Fatalf("expected ErrExport, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected empty dir, got %d entries", len(entries))
		}
		last, _ := rec.Last()
		if last.Key != notify.ExportError || last.Params["error"] != "not allowed" {
			t.Errorf("notification = %+v", last)
		}
	})

	t.Run("missing exporter", func(t *testing.T) {
		req := NewExportRequester(nil, nil, &notify.Recorder{}, nil, t.TempDir())
		if _, err := req.Export(ctx, localPlaylist(1)); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("local render resolves the full set", func(t *testing.T) {
		dir := t.TempDir()
		source := &fakeSource{tracks: tracks("2", "1")}
		req := NewExportRequester(nil, NewResolver(source, nil), &notify.Recorder{}, nil, dir)

		path, err := req.ExportLocal(ctx, localPlaylist(2), models.TrackSet{}, "CSV")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Ext(path) != ".csv" {
			t.Errorf("path = %q", path)
		}
		content := tu.MustReadFile(t, path)
		first, second := strings.Index(content, "Song 1"), strings.Index(content, "Song 2")
		if first < 0 || second < first {
			t.Errorf("expected tracks in membership order, got %q", content)
		}
		if source.callCount() != 1 {
			t.Errorf("expected 1 fetch, got %d", source.callCount())
		}
	})

	t.Run("unknown local format", func(t *testing.T) {
		req := NewExportRequester(nil, NewResolver(&fakeSource{}, nil), &notify.Recorder{}, nil, t.TempDir())
		if _, err := req.ExportLocal(ctx, localPlaylist(0), models.TrackSet{}, "xspf"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestShare(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := &tu.MockService{ShareURL: "http://localhost:4533/share/abc"}
		rec := &notify.Recorder{}

		share, err := Share(ctx, svc, rec, localPlaylist(1), "for the road")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if share.URL != svc.ShareURL || share.Description != "for the road" {
			t.Errorf("share = %+v", share)
		}
		last, _ := rec.Last()
		if last.Key != notify.ShareSuccess || last.Params["url"] != svc.ShareURL {
			t.Errorf("notification = %+v", last)
		}
	})

	t.Run("failure", func(t *testing.T) {
		svc := &tu.MockService{ShareErr: errors.New("sharing disabled")}
		rec := &notify.Recorder{}
		if _, err := Share(ctx, svc, rec, localPlaylist(1), ""); err == nil {
			t.Error("expected error")
		}
		if len(rec.All()) != 0 {
			t.Errorf("unexpected notifications %v", rec.Keys())
		}
	})

	t.Run("no sharer", func(t *testing.T) {
		if _, err := Share(ctx, nil, nil, localPlaylist(1), ""); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()

	ext1 := externalPlaylist()
	ext2 := externalPlaylist()
	ext2.ID, ext2.Name = "pl-ext-2", "Release Radar"
	playlists := []models.Playlist{localPlaylist(3), ext1, ext2}

	t.Run("syncs only external playlists", func(t *testing.T) {
		svc := &tu.MockService{}
		ref := &countingRefresher{}
		rec := &notify.Recorder{}
		prog := make(chan ProgressUpdate, 10)

		result, err := SyncAll(ctx, prog, playlists, svc, ref, rec, nil, BulkSyncOpts{Workers: 2, RateLimit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 || result.Skipped != 1 || result.Succeeded != 2 || result.Failed != 0 {
			t.Errorf("result = %+v", result)
		}
		if svc.SyncCount() != 2 || ref.count() != 2 {
			t.Errorf("syncs = %d, refreshes = %d", svc.SyncCount(), ref.count())
		}
		if len(rec.All()) != 2 {
			t.Errorf("expected 2 notifications, got %v", rec.Keys())
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if len(phases) == 0 || phases[0] != FetchPlaylists {
			t.Errorf("phases = %v", phases)
		}
	})

	t.Run("failures are collected", func(t *testing.T) {
		svc := &tu.MockService{SyncErr: errors.New("agent down")}
		result, err := SyncAll(ctx, nil, playlists, svc, nil, &notify.Recorder{}, nil, BulkSyncOpts{RateLimit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 2 || result.Succeeded != 0 {
			t.Errorf("result = %+v", result)
		}
		for _, r := range result.Results {
			if r.Error == nil {
				t.Errorf("expected error for %s", r.Playlist.ID)
			}
		}
	})

	t.Run("no syncer", func(t *testing.T) {
		if _, err := SyncAll(ctx, nil, playlists, nil, nil, nil, nil, BulkSyncOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSendProgress(t *testing.T) {
	t.Run("nil channel", func(t *testing.T) {
		sendProgress(nil, ProgressUpdate{Message: "ignored"})
	})

	t.Run("full channel does not block", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 1)
		sendProgress(ch, ProgressUpdate{Message: "first"})
		sendProgress(ch, ProgressUpdate{Message: "dropped"})
		if got := (<-ch).Message; got != "first" {
			t.Errorf("got %q", got)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchPlaylists, "fetch_playlists"},
		{ResolveTracks, "resolve_tracks"},
		{SyncPlaylist, "sync_playlist"},
		{ExportPlaylist, "export_playlist"},
		{Phase(99), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
