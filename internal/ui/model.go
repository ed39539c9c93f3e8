package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nickpending/catchup/internal/commands"
	"github.com/nickpending/catchup/internal/cursor"
	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/syncer"
	"github.com/nickpending/catchup/internal/ui/operations"
)

// pane identifies which board column has keyboard focus
type pane int

const (
	paneCategories pane = iota
	paneStreams
)

const syncBusyStatus = "✗ Sync in progress, try again when it finishes"

// Model represents the application state for the TUI
type Model struct {
	lib    *library.Library
	engine *syncer.Syncer
	log    *zap.Logger

	categories []*library.Category
	loadErr    error
	focus      pane
	catIdx     int
	streamIdx  int
	loading    bool

	width  int
	height int
	theme  StyleTheme

	// Status message for user feedback
	statusMessage string

	// Sync run state; the engine owns the library while syncing is true
	syncing bool
	syncCh  chan tea.Msg

	// Modal state
	streamModal   StreamModal   // Add/edit stream form
	categoryModal CategoryModal // Add/rename category form
	itemModal     ItemModal     // Append item to a manual stream
	progressModal ProgressModal // Progress note editor
	memoModal     MemoModal     // Library memo editor
	introModal    IntroModal    // Getting-started guide
	commandMode   CommandMode   // Vim-style command mode

	// Filesystem watch state
	watch      <-chan struct{}
	introShown bool // guide auto-opened once for an empty library
}

// categoriesLoadedMsg represents categories loaded from the library
type categoriesLoadedMsg struct {
	categories []*library.Category
	err        error
}

// memoLoadedMsg carries the memo text read for the editor
type memoLoadedMsg struct {
	text string
	err  error
}

// clearStatusMsg is sent to clear the status message after a delay
type clearStatusMsg struct{}

// watchChangedMsg is sent when the library changes on disk
type watchChangedMsg struct{}

// NewModel creates a new Model instance
func NewModel(lib *library.Library, engine *syncer.Syncer, themeName string, log *zap.Logger, watch <-chan struct{}) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		lib:           lib,
		engine:        engine,
		log:           log,
		watch:         watch,
		theme:         ThemeByName(themeName),
		loading:       true,
		streamModal:   NewStreamModal(lib),
		categoryModal: NewCategoryModal(lib),
		itemModal:     NewItemModal(lib),
		progressModal: NewProgressModal(),
		memoModal:     NewMemoModal(lib),
		introModal:    NewIntroModal(),
		commandMode:   NewCommandMode(),
	}
}

// Init initializes the model and returns a command to load the library
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCategories(m.lib), listenWatch(m.watch))
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// Handle window size for modals and command mode
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.streamModal.SetSize(msg.Width, msg.Height)
		m.categoryModal.SetSize(msg.Width, msg.Height)
		m.itemModal.SetSize(msg.Width, msg.Height)
		m.progressModal.SetSize(msg.Width, msg.Height)
		m.memoModal.SetSize(msg.Width, msg.Height)
		m.introModal.SetSize(msg.Width, msg.Height, m.theme)
		m.commandMode.SetWidth(msg.Width)
	}

	// Async results are handled before focus routing. A sync run re-arms its
	// listener from here; routing these into a modal would stall the pipe.
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil && len(msg.categories) == 0 {
			return m, nil
		}
		var statusCmd tea.Cmd
		if msg.err != nil {
			// Partial load: the scan skips unreadable streams and still
			// returns the rest, so show the library and report the skips.
			m.loadErr = nil
			m.statusMessage = fmt.Sprintf("✗ Skipped unreadable streams: %v", msg.err)
			statusCmd = clearStatusAfterDelay(5 * time.Second)
		}
		var prevCategory, prevStream string
		if cat := m.currentCategory(); cat != nil {
			prevCategory = cat.Name
		}
		if st := m.currentStream(); st != nil {
			prevStream = st.Name
		}
		m.categories = msg.categories
		m.retargetSelection(prevCategory, prevStream)
		if len(m.categories) == 0 && !m.introShown {
			m.introShown = true
			m.introModal.SetSize(m.width, m.height, m.theme)
			m.introModal.ShowWith(m.theme)
		}
		return m, statusCmd

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case watchChangedMsg:
		// Something touched the library outside this process. Reload unless
		// the writer was our own sync run, which reloads when it finishes.
		cmds = append(cmds, listenWatch(m.watch))
		if !m.syncing {
			cmds = append(cmds, loadCategories(m.lib))
		}
		return m, tea.Batch(cmds...)

	case memoLoadedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("✗ Failed to load memo: %v", msg.err)
			return m, clearStatusAfterDelay(3 * time.Second)
		}
		m.memoModal.SetSize(m.width, m.height)
		m.memoModal.ShowWith(msg.text)
		return m, nil

	case operations.SyncProgressMsg:
		m.statusMessage = msg.Line
		return m, operations.ListenSync(m.syncCh)

	case operations.SyncDoneMsg:
		m.syncing = false
		m.syncCh = nil
		added := operations.Added(msg.Results)
		if msg.Err != nil {
			failed := 0
			for _, r := range msg.Results {
				if r.Err != nil {
					failed++
				}
			}
			m.statusMessage = fmt.Sprintf("✗ Sync: %d new item(s), %d stream(s) failed", added, failed)
			m.log.Warn("synchronization finished with errors", zap.Error(msg.Err))
		} else {
			m.statusMessage = fmt.Sprintf("✓ Sync complete! %d new item(s)", added)
		}
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(3*time.Second))

	case operations.AdvanceDoneMsg:
		if msg.Err != nil {
			m.statusMessage = fmt.Sprintf("✗ Advance failed: %v", msg.Err)
			return m, clearStatusAfterDelay(3 * time.Second)
		}
		if msg.Outcome == cursor.Exhausted {
			m.statusMessage = fmt.Sprintf("✓ %s is caught up", msg.Stream.Name)
		} else {
			m.statusMessage = fmt.Sprintf("✓ Advanced to %s", msg.Stream.Cursor.Name)
		}
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(2*time.Second))

	case operations.ProgressSavedMsg:
		if m.progressModal.IsVisible() {
			m.progressModal.HandleResult(msg.Err)
			if msg.Err != nil {
				return m, nil
			}
		} else if msg.Err != nil {
			// :progress saves directly without the modal
			m.statusMessage = fmt.Sprintf("✗ %v", msg.Err)
			return m, clearStatusAfterDelay(3 * time.Second)
		}
		m.statusMessage = fmt.Sprintf("✓ Progress saved: %s", msg.Value)
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(2*time.Second))

	case operations.StreamSavedMsg:
		m.streamModal.HandleResult(msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.statusMessage = streamSavedStatus(msg.Created, msg.Stream)
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(2*time.Second))

	case operations.CategorySavedMsg:
		if m.categoryModal.IsVisible() {
			m.categoryModal.HandleResult(msg.Err)
			if msg.Err != nil {
				return m, nil
			}
		} else if msg.Err != nil {
			// :category NAME creates directly without the modal
			m.statusMessage = fmt.Sprintf("✗ %v", msg.Err)
			return m, clearStatusAfterDelay(3 * time.Second)
		}
		m.statusMessage = fmt.Sprintf("✓ Saved category %s", msg.Name)
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(2*time.Second))

	case operations.ItemAppendedMsg:
		m.itemModal.HandleResult(msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("✓ Added %s to %s", msg.Item.Name, msg.Stream.Name)
		return m, tea.Batch(loadCategories(m.lib), clearStatusAfterDelay(2*time.Second))

	case operations.MemoSavedMsg:
		m.memoModal.HandleResult(msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.statusMessage = "✓ Memo saved"
		return m, clearStatusAfterDelay(2 * time.Second)

	case targetOpenedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("✗ %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Opening %s...", truncate(msg.target, 60))
		}
		return m, clearStatusAfterDelay(2 * time.Second)

	case targetYankedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("✗ %v", msg.err)
		} else {
			m.statusMessage = "✓ Copied to clipboard"
		}
		return m, clearStatusAfterDelay(2 * time.Second)
	}

	// Command mode captures keys ahead of the modals
	if m.commandMode.IsActive() {
		m.commandMode, cmd = m.commandMode.Update(msg)
		return m, cmd
	}

	// Route everything else to whichever modal is open
	if m.introModal.IsVisible() {
		m.introModal, cmd = m.introModal.Update(msg)
		return m, cmd
	}
	if m.streamModal.IsVisible() {
		m.streamModal, cmd = m.streamModal.Update(msg)
		return m, cmd
	}
	if m.categoryModal.IsVisible() {
		m.categoryModal, cmd = m.categoryModal.Update(msg)
		return m, cmd
	}
	if m.itemModal.IsVisible() {
		m.itemModal, cmd = m.itemModal.Update(msg)
		return m, cmd
	}
	if m.progressModal.IsVisible() {
		m.progressModal, cmd = m.progressModal.Update(msg)
		return m, cmd
	}
	if m.memoModal.IsVisible() {
		m.memoModal, cmd = m.memoModal.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case commands.RefreshMsg:
		m.loading = true
		return m, loadCategories(m.lib)

	case commands.ErrorMsg:
		// Show error in command line instead of status
		return m, m.commandMode.SetError(msg.Message)

	case commands.IntroMsg:
		m.introModal.SetSize(m.width, m.height, m.theme)
		m.introModal.ShowWith(m.theme)
		return m, nil

	case commands.AddStreamMsg:
		if m.syncing {
			m.statusMessage = syncBusyStatus
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		category := ""
		if cat := m.currentCategory(); cat != nil {
			category = cat.Name
		}
		m.streamModal.SetSize(m.width, m.height)
		m.streamModal.ShowAdd(category)
		return m, nil

	case commands.EditStreamMsg:
		if m.syncing {
			m.statusMessage = syncBusyStatus
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		st := m.currentStream()
		if st == nil {
			m.statusMessage = "✗ No stream selected"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		m.streamModal.SetSize(m.width, m.height)
		m.streamModal.ShowEdit(st)
		return m, nil

	case commands.CategoryMsg:
		if m.syncing {
			m.statusMessage = syncBusyStatus
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		if msg.Name != "" {
			return m, operations.CreateCategory(m.lib, msg.Name)
		}
		m.categoryModal.SetSize(m.width, m.height)
		m.categoryModal.ShowAdd()
		return m, nil

	case commands.ItemMsg:
		st := m.currentStream()
		if st == nil {
			m.statusMessage = "✗ No stream selected"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		if st.Kind != stream.Manual {
			m.statusMessage = "✗ Items can only be added to manual streams"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		m.itemModal.SetSize(m.width, m.height)
		m.itemModal.ShowFor(st)
		return m, nil

	case commands.MemoMsg:
		return m, loadMemo(m.lib)

	case commands.SyncMsg:
		return m.startSync(msg.All)

	case commands.ThemeMsg:
		if msg.Name != "" {
			m.theme = ThemeByName(msg.Name)
		} else {
			m.theme = NextTheme(m.theme.Name)
		}
		m.introModal.SetSize(m.width, m.height, m.theme)
		m.statusMessage = fmt.Sprintf("Theme: %s", m.theme.Name)
		return m, clearStatusAfterDelay(2 * time.Second)

	case commands.AdvanceMsg:
		return m.advanceCurrent()

	case commands.ProgressMsg:
		if m.syncing {
			m.statusMessage = syncBusyStatus
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		st := m.currentStream()
		if st == nil {
			m.statusMessage = "✗ No stream selected"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		return m, operations.SaveProgress(st, msg.Value)

	case commands.OpenMsg:
		return m, openCurrent(m.currentStream())

	case commands.YankMsg:
		return m, yankCurrent(m.currentStream())

	case tea.KeyMsg:
		switch msg.String() {
		case ":":
			// Activate command mode
			m.commandMode.Show()
			return m, nil

		case "q", "ctrl+c":
			return m, tea.Quit

		case "tab":
			if m.focus == paneCategories {
				m.focus = paneStreams
			} else {
				m.focus = paneCategories
			}

		case "h", "left":
			m.focus = paneCategories

		case "l", "right":
			m.focus = paneStreams

		// Navigation in the focused column
		case "j", "down":
			if m.focus == paneCategories {
				if m.catIdx < len(m.categories)-1 {
					m.catIdx++
					m.streamIdx = 0
				}
			} else if cat := m.currentCategory(); cat != nil && m.streamIdx < len(cat.Streams)-1 {
				m.streamIdx++
			}

		case "k", "up":
			if m.focus == paneCategories {
				if m.catIdx > 0 {
					m.catIdx--
					m.streamIdx = 0
				}
			} else if m.streamIdx > 0 {
				m.streamIdx--
			}

		case "g":
			if m.focus == paneCategories {
				m.catIdx = 0
			}
			m.streamIdx = 0

		case "G":
			if m.focus == paneCategories {
				if len(m.categories) > 0 {
					m.catIdx = len(m.categories) - 1
					m.streamIdx = 0
				}
			} else if cat := m.currentCategory(); cat != nil && len(cat.Streams) > 0 {
				m.streamIdx = len(cat.Streams) - 1
			}

		case "enter":
			if m.focus == paneCategories {
				m.focus = paneStreams
				return m, nil
			}
			return m, openCurrent(m.currentStream())

		case "o":
			return m, openCurrent(m.currentStream())

		case "y":
			return m, yankCurrent(m.currentStream())

		case "c":
			return m.advanceCurrent()

		case "t":
			if m.syncing {
				m.statusMessage = syncBusyStatus
				return m, clearStatusAfterDelay(2 * time.Second)
			}
			st := m.currentStream()
			if st == nil {
				m.statusMessage = "✗ No stream selected"
				return m, clearStatusAfterDelay(2 * time.Second)
			}
			if st.Cursor.State() != stream.Active {
				m.statusMessage = fmt.Sprintf("✗ %s has no current item", st.Name)
				return m, clearStatusAfterDelay(2 * time.Second)
			}
			m.progressModal.SetSize(m.width, m.height)
			m.progressModal.ShowFor(st)
			return m, nil

		case "u":
			return m.startSync(false)

		case "U":
			return m.startSync(true)

		case "E":
			if m.syncing {
				m.statusMessage = syncBusyStatus
				return m, clearStatusAfterDelay(2 * time.Second)
			}
			cat := m.currentCategory()
			if cat == nil {
				m.statusMessage = "✗ No category selected"
				return m, clearStatusAfterDelay(2 * time.Second)
			}
			m.categoryModal.SetSize(m.width, m.height)
			m.categoryModal.ShowRename(cat.Name)
			return m, nil

		// Single keys reuse the command paths
		case "a":
			return m, emit(commands.AddStreamMsg{})
		case "e":
			return m, emit(commands.EditStreamMsg{})
		case "A":
			return m, emit(commands.CategoryMsg{})
		case "n":
			return m, emit(commands.ItemMsg{})
		case "m":
			return m, emit(commands.MemoMsg{})
		case "i":
			return m, emit(commands.IntroMsg{})
		case "r":
			return m, emit(commands.RefreshMsg{})
		case "T":
			return m, emit(commands.ThemeMsg{})
		}
	}

	if len(cmds) > 0 {
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// View renders the current model state
func (m Model) View() string {
	baseView := renderBoard(m)

	// Overlay whichever modal is visible (with dimming)
	if m.introModal.IsVisible() {
		return m.introModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}
	if m.streamModal.IsVisible() {
		return m.streamModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}
	if m.categoryModal.IsVisible() {
		return m.categoryModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}
	if m.itemModal.IsVisible() {
		return m.itemModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}
	if m.progressModal.IsVisible() {
		return m.progressModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}
	if m.memoModal.IsVisible() {
		return m.memoModal.ViewWithOverlay(baseView, m.width, m.height, m.theme)
	}

	return baseView
}

// currentCategory returns the selected category, or nil
func (m Model) currentCategory() *library.Category {
	if m.catIdx >= 0 && m.catIdx < len(m.categories) {
		return m.categories[m.catIdx]
	}
	return nil
}

// currentStream returns the selected stream, or nil
func (m Model) currentStream() *stream.Stream {
	cat := m.currentCategory()
	if cat == nil || m.streamIdx < 0 || m.streamIdx >= len(cat.Streams) {
		return nil
	}
	return cat.Streams[m.streamIdx]
}

// retargetSelection re-points the selection at the same names after a reload
func (m *Model) retargetSelection(prevCategory, prevStream string) {
	m.catIdx = 0
	for i, cat := range m.categories {
		if cat.Name == prevCategory {
			m.catIdx = i
			break
		}
	}
	m.streamIdx = 0
	if cat := m.currentCategory(); cat != nil {
		for i, st := range cat.Streams {
			if st.Name == prevStream {
				m.streamIdx = i
				break
			}
		}
	}
}

// advanceCurrent moves the selected stream's cursor one item forward
func (m Model) advanceCurrent() (Model, tea.Cmd) {
	if m.syncing {
		m.statusMessage = syncBusyStatus
		return m, clearStatusAfterDelay(2 * time.Second)
	}
	st := m.currentStream()
	if st == nil {
		m.statusMessage = "✗ No stream selected"
		return m, clearStatusAfterDelay(2 * time.Second)
	}
	return m, operations.AdvanceCursor(st)
}

// startSync kicks off a synchronize run over the current stream or the whole
// library. One run at a time; the engine is not safe for concurrent use.
func (m Model) startSync(all bool) (Model, tea.Cmd) {
	if m.syncing {
		m.statusMessage = syncBusyStatus
		return m, clearStatusAfterDelay(2 * time.Second)
	}

	var streams []*stream.Stream
	if all {
		for _, cat := range m.categories {
			streams = append(streams, cat.Streams...)
		}
	} else if st := m.currentStream(); st != nil {
		if !st.Kind.Remote() {
			m.statusMessage = "✗ Manual streams have nothing to sync"
			return m, clearStatusAfterDelay(2 * time.Second)
		}
		streams = append(streams, st)
	}

	if len(streams) == 0 {
		m.statusMessage = "Nothing to sync"
		return m, clearStatusAfterDelay(2 * time.Second)
	}

	m.syncing = true
	m.statusMessage = "Syncing..."
	m.syncCh = operations.StartSync(m.engine, streams)
	return m, operations.ListenSync(m.syncCh)
}

// loadCategories returns a command that reads the library tree
func loadCategories(lib *library.Library) tea.Cmd {
	return func() tea.Msg {
		categories, err := lib.Categories()
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// loadMemo returns a command that reads the library memo
func loadMemo(lib *library.Library) tea.Cmd {
	return func() tea.Msg {
		text, err := lib.Memo()
		return memoLoadedMsg{text: text, err: err}
	}
}

// listenWatch returns a command that waits for the next filesystem event
func listenWatch(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return watchChangedMsg{}
	}
}

// clearStatusAfterDelay returns a command that clears the status message after a delay
func clearStatusAfterDelay(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// emit wraps a message in a command so key bindings reuse the command paths
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
