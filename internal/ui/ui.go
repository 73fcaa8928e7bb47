package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertlark/listenlog/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	DetailView
)

// Model represents the TUI application state.
type Model struct {
	view      ViewState
	trackList list.Model
	records   []services.TrackRecord
	selected  *services.TrackRecord
	dropped   int
	fetchedAt string
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a TUI model over one saved run's merged records.
func NewModel(records []services.TrackRecord, dropped int, fetchedAt string) *Model {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = trackItem{record: rec}
	}

	trackList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = fmt.Sprintf("Recently Played (%d tracks)", len(records))

	return &Model{
		view:      TrackListView,
		trackList: trackList,
		records:   records,
		dropped:   dropped,
		fetchedAt: fetchedAt,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.trackList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				rec := item.record
				m.selected = &rec
				m.view = DetailView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.selected = nil
		m.view = TrackListView
		return m, nil
	}
	return m, nil
}

func (m *Model) renderTrackList() string {
	status := fmt.Sprintf("fetched %s", m.fetchedAt)
	if m.dropped > 0 {
		status = fmt.Sprintf("%s • %s", status, styles.warn.Render(fmt.Sprintf("%d unmatched play(s) dropped", m.dropped)))
	}

	helpView := m.help.ShortHelpView(m.keys.FullHelp()[0])
	return fmt.Sprintf("%s\n%s\n\n%s", m.trackList.View(), styles.help.Render(status), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		m.view = TrackListView
		return m.renderTrackList()
	}

	rec := *m.selected
	title := styles.title.Render(rec.Name)
	info := fmt.Sprintf("Album: %s (%s)\nPopularity: %d\n\n%s",
		rec.Album.Name, rec.Album.ReleaseDate, rec.Popularity, featureLines(rec))

	helpView := m.help.ShortHelpView(m.keys.FullHelp()[1])
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
