package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzicc987/navimax/internal/formatter"
	"github.com/muzicc987/navimax/internal/models"
	"github.com/muzicc987/navimax/internal/notify"
	"github.com/muzicc987/navimax/internal/services"
	"github.com/muzicc987/navimax/internal/shared"
	"github.com/muzicc987/navimax/internal/tasks"
)

var _ Painter = (*Palette)(nil)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
)

const defaultPageSize = 50

// Library is the read side of the server used to browse playlists.
type Library interface {
	services.TrackSource
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
}

// ActionsFactory builds the action bar for a playlist.
type ActionsFactory func(models.Playlist) (*tasks.PlaylistActions, error)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	library    Library
	session    models.Session
	newActions ActionsFactory
	status     *notify.Recorder
	pageSize   int

	width        int
	height       int
	ready        bool
	playlistList list.Model
	playlists    []models.Playlist
	trackList    list.Model

	selected models.Playlist
	loaded   models.TrackSet
	actions  map[string]*tasks.PlaylistActions
	message  string
	err      error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// status should be one of the notifiers the actions report to; its latest entry is the status line.
func NewModel(ctx context.Context, library Library, session models.Session, newActions ActionsFactory, status *notify.Recorder) *Model {
	if status == nil {
		status = &notify.Recorder{}
	}
	return &Model{
		ctx:        ctx,
		view:       PlaylistListView,
		library:    library,
		session:    session,
		newActions: newActions,
		status:     status,
		pageSize:   defaultPageSize,
		width:      80,
		height:     24,
		actions:    make(map[string]*tasks.PlaylistActions),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by fetching the playlist list.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.setPlaylists(data.playlists)
		return m, nil

	case MsgTracksFetched:
		data := msg.data.(tracksFetched)
		if data.err != nil {
			m.message = fmt.Sprintf("Could not load %s: %v", data.playlist.Name, data.err)
			return m, nil
		}
		m.setTracks(data.playlist, data.tracks)
		return m, nil

	case MsgActionDone:
		data := msg.data.(actionDone)
		if data.err != nil {
			m.message = fmt.Sprintf("%s failed: %v", data.label, data.err)
		} else {
			m.message = data.label
		}
		return m, nil

	case MsgSyncDone:
		data := msg.data.(syncDone)
		if data.err != nil {
			return m, nil
		}
		// Drop the action bar so the next one sees the refreshed song count.
		delete(m.actions, data.playlistID)
		cmds := []tea.Cmd{m.fetchPlaylists()}
		if m.view != PlaylistListView && m.selected.ID == data.playlistID {
			cmds = append(cmds, m.fetchTracks(data.playlistID))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *Model) setPlaylists(playlists []models.Playlist) {
	mine, others := formatter.Partition(playlists, m.session)
	m.playlists = append(mine, others...)

	items := make([]list.Item, 0, len(m.playlists))
	for _, pl := range mine {
		items = append(items, playlistItem{playlist: pl, mine: true})
	}
	for _, pl := range others {
		items = append(items, playlistItem{playlist: pl})
	}

	if m.ready {
		m.playlistList.SetItems(items)
		return
	}
	m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = "Playlists"
	m.playlistList.SetSize(m.width-4, m.height-8)
	m.trackList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.trackList.SetSize(m.width-4, m.height-8)
	m.ready = true
}

func (m *Model) setTracks(playlist models.Playlist, tracks []models.Track) {
	m.selected = playlist
	m.loaded = models.NewTrackSet(tracks)

	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	m.trackList.SetItems(items)
	m.trackList.Title = fmt.Sprintf("%s (%d of %d loaded)", playlist.Name, len(tracks), playlist.SongCount)
	m.view = TrackListView
}

// currentActions returns the action bar of the selected playlist, creating it on first use.
//
// Action bars are kept per playlist so a running sync survives navigating away and back.
func (m *Model) currentActions() (*tasks.PlaylistActions, error) {
	if a, ok := m.actions[m.selected.ID]; ok {
		return a, nil
	}
	a, err := m.newActions(m.selected)
	if err != nil {
		return nil, err
	}
	m.actions[m.selected.ID] = a
	return a, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case PlaylistListView:
		body = m.renderPlaylistList()
	case TrackListView:
		body = m.renderTrackList()
	case ConfirmView:
		body = m.renderConfirm()
	}

	return body + m.renderStatus()
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.fetchTracks(pl.playlist.ID)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.play):
		return m, m.queue(models.Play)
	case key.Matches(msg, m.keys.shuffle):
		return m, m.queue(models.Shuffle)
	case key.Matches(msg, m.keys.playNext):
		return m, m.queue(models.PlayNext)
	case key.Matches(msg, m.keys.enqueue):
		return m, m.queue(models.Enqueue)
	case key.Matches(msg, m.keys.export):
		return m, m.export()
	case key.Matches(msg, m.keys.share):
		return m, m.share()
	case key.Matches(msg, m.keys.open):
		return m, m.openOriginal()
	case key.Matches(msg, m.keys.sync):
		m.requestSync()
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.syncSession()
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = TrackListView
		if session == nil {
			return m, nil
		}
		done, ok := session.Confirm(m.ctx)
		if !ok {
			return m, nil
		}
		return m, waitForSync(session.Playlist().ID, done)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		if session != nil {
			session.Cancel()
		}
		m.view = TrackListView
		return m, nil
	}
	return m, nil
}

func (m *Model) syncSession() *tasks.SyncSession {
	a, err := m.currentActions()
	if err != nil {
		return nil
	}
	return a.Sync()
}

func (m *Model) requestSync() {
	session := m.syncSession()
	if session == nil {
		m.message = fmt.Sprintf("%s is not an external playlist", m.selected.Name)
		return
	}
	if session.Request() {
		m.view = ConfirmView
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.library.GetPlaylists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

// fetchTracks loads the playlist and its first page of tracks.
func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	pageSize := m.pageSize
	return func() tea.Msg {
		playlist, err := m.library.GetPlaylist(m.ctx, playlistID)
		if err != nil {
			return tracksFetchedMsg(models.Playlist{ID: playlistID}, nil, err)
		}
		tracks, err := m.library.ListPlaylistTracks(m.ctx, playlistID, services.ListOptions{Start: 0, End: pageSize})
		return tracksFetchedMsg(*playlist, tracks, err)
	}
}

func (m *Model) queue(action models.QueueAction) tea.Cmd {
	a, err := m.currentActions()
	if err != nil {
		m.message = err.Error()
		return nil
	}
	loaded := m.loaded
	return func() tea.Msg {
		cmd, err := a.Queue(m.ctx, action, loaded)
		return actionDoneMsg(fmt.Sprintf("%s: %d tracks", action, len(cmd.IDs)), err)
	}
}

func (m *Model) export() tea.Cmd {
	a, err := m.currentActions()
	if err != nil {
		m.message = err.Error()
		return nil
	}
	return func() tea.Msg {
		_, err := a.Export(m.ctx)
		return actionDoneMsg("export", err)
	}
}

func (m *Model) share() tea.Cmd {
	a, err := m.currentActions()
	if err != nil {
		m.message = err.Error()
		return nil
	}
	return func() tea.Msg {
		_, err := a.Share(m.ctx)
		return actionDoneMsg("share", err)
	}
}

func (m *Model) openOriginal() tea.Cmd {
	a, err := m.currentActions()
	if err != nil {
		m.message = err.Error()
		return nil
	}
	return func() tea.Msg {
		return actionDoneMsg("open source", a.OpenOriginal())
	}
}

func waitForSync(playlistID string, done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg(playlistID, <-done)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.play, m.keys.shuffle, m.keys.playNext, m.keys.enqueue, m.keys.export, m.keys.share}

	var extra []string
	if m.selected.IsExternal() {
		helpKeys = append(helpKeys, m.keys.open)
		if session := m.syncSession(); session != nil && session.Disabled() {
			extra = append(extra, styles.help.Render(fmt.Sprintf("sync (%s)", session.Phase())))
		} else {
			helpKeys = append(helpKeys, m.keys.sync)
		}
	}
	helpKeys = append(helpKeys, m.keys.back, m.keys.quit)

	bar := m.help.ShortHelpView(helpKeys)
	if len(extra) > 0 {
		bar = bar + " • " + strings.Join(extra, " • ")
	}
	size := styles.help.Render(fmt.Sprintf("Download (%s)", shared.FormatBytes(m.selected.Size)))
	return fmt.Sprintf("%s\n\n%s\n%s", m.trackList.View(), size, bar)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Sync '%s' from its source?", m.selected.Name))
	info := fmt.Sprintf("\nSource: %s\nThe playlist tracks will be replaced with the current contents of the source.\n", m.selected.ExternalURL)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderStatus() string {
	var lines []string
	if n, ok := m.status.Last(); ok {
		lines = append(lines, styles.Notice(n))
	}
	if m.message != "" {
		lines = append(lines, styles.help.Render(m.message))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(lines, "\n")
}
