// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/i18n"
	"github.com/akyodex/akyodex/internal/library"
	"github.com/akyodex/akyodex/internal/render"
	"github.com/akyodex/akyodex/internal/scroll"
	"github.com/akyodex/akyodex/internal/tui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	// frameInterval batches scroll signals into one check per frame.
	frameInterval = 16 * time.Millisecond
	// refetchDelay spaces the background reload of a truncated dataset.
	refetchDelay = 5 * time.Second
	// chromeHeight is header + search + status + footer (two lines).
	chromeHeight = 5
	cursorMark   = "▶ "
)

// Catalog is what the catalog screen needs from the application layer.
type Catalog interface {
	Load(ctx context.Context, lang string) (*library.Snapshot, error)
	Filter(view catalog.ViewState) []catalog.Entry
	Attributes() []string
	Creators() []string
	ToggleFavorite(id string) (bool, error)
	Show(ctx context.Context, id string) (domain.EntryResult, error)
	PreferencesChanged(path string) *library.Snapshot
	Prefetch(ctx context.Context, entries []catalog.Entry) (int, error)
}

// CatalogOptions configure the catalog screen.
type CatalogOptions struct {
	Lang      string
	Initial   int
	Step      int
	Threshold int
	Images    render.ImageResolver
	Logger    *zap.Logger
}

// CatalogKeyMap defines key bindings for the catalog screen.
type CatalogKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Search   key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Random   key.Binding
	Favorite key.Binding
	Language key.Binding
	Reload   key.Binding
	Layout   key.Binding
	Detail   key.Binding
	Clear    key.Binding
	Help     key.Binding
}

// DefaultCatalogKeyMap returns the default key bindings.
func DefaultCatalogKeyMap() CatalogKeyMap {
	return CatalogKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Random:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "random")),
		Favorite: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "favorite")),
		Language: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Layout:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "grid/list")),
		Detail:   key.NewBinding(key.WithKeys(KeyEnter), key.WithHelp("enter", "details")),
		Clear:    key.NewBinding(key.WithKeys(KeyEsc), key.WithHelp("esc", "clear")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// CatalogModel is the main screen: a searchable, filterable view of the
// catalog rendered through the incremental view cache.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type CatalogModel struct {
	ctx      context.Context
	catalog  Catalog
	styles   *styles.Styles
	messages i18n.Messages
	logger   *zap.Logger

	projector *render.Projector
	cache     *render.ViewCache
	scroll    *scroll.Controller

	view    catalog.ViewState
	results []catalog.Entry
	layout  render.Layout
	cursor  int
	rowSize int // lines per grid row or list row, from the last render

	search    textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	form      *huh.Form
	filter    *FilterValues
	helpModal *HelpModal

	// prefetchCancel stops the lookups of the previous visible set.
	prefetchCancel context.CancelFunc

	loading   bool
	loaded    bool
	fromCache bool
	truncated bool
	refetched bool
	status    string

	width  int
	height int
	keyMap CatalogKeyMap
}

// NewCatalog creates the catalog screen. Call Init to start the first load.
func NewCatalog(ctx context.Context, cat Catalog, styleConfig *styles.Styles, opts CatalogOptions) *CatalogModel {
	if styleConfig == nil {
		styleConfig = styles.New()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	messages := i18n.For(opts.Lang)

	search := textinput.New()
	search.Prompt = messages.SearchPrompt
	search.CharLimit = 128

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	helpModal := NewHelpModal(messages.HelpTitle)
	helpModal.SetScreen(HelpCatalog)

	return &CatalogModel{
		ctx:       ctx,
		catalog:   cat,
		styles:    styleConfig,
		messages:  messages,
		logger:    logger,
		projector: render.NewProjector(opts.Images, logger),
		cache:     render.NewViewCache(styleConfig.Palette(), i18n.Labels),
		scroll:    scroll.New(opts.Initial, opts.Step, opts.Threshold),
		view:      catalog.NewViewState(),
		layout:    render.LayoutGrid,
		rowSize:   1,
		search:    search,
		viewport:  viewport.New(1, 1),
		spinner:   spin,
		helpModal: helpModal,
		loading:   true,
		keyMap:    DefaultCatalogKeyMap(),
	}
}

// Init starts the first load.
func (m *CatalogModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.messages.Lang, false))
}

// CapturesInput reports whether printable keys belong to a text field.
func (m *CatalogModel) CapturesInput() bool {
	return m.search.Focused() || m.form != nil
}

// Update handles messages for the catalog screen.
//
//nolint:cyclop // one case per message type
func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case LoadedMsg:
		return m, m.handleLoaded(msg)

	case RetryMsg:
		return m, m.startLoad(m.messages.Lang)

	case refetchMsg:
		if msg.lang != m.messages.Lang {
			return m, nil
		}

		return m, m.load(msg.lang, true)

	case PrefsChangedMsg:
		if snapshot := m.catalog.PreferencesChanged(msg.Path); snapshot != nil {
			m.apply(false)
		}

		return m, nil

	case FavoriteRequestMsg:
		return m, m.toggleFavorite(msg.ID)

	case FavoriteToggledMsg:
		m.handleFavoriteToggled(msg)

		return m, nil

	case PrefetchedMsg:
		if msg.Count > 0 {
			m.render()
		}

		return m, nil

	case DetailMsg:
		if msg.Err != nil {
			m.status = domain.GetErrorInfo(msg.Err, false).Message
		}

		return m, nil

	case scrollFrameMsg:
		if m.scroll.Frame() {
			m.render()

			return m, tea.Batch(m.prefetch(), m.scrollSignal())
		}

		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, tea.Batch(cmd, m.scrollSignal())

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd

		m.search, cmd = m.search.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *CatalogModel) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.viewport.Width = max(width, 1)
	m.viewport.Height = max(height-chromeHeight, 1)
	m.search.Width = max(width-runewidth.StringWidth(m.search.Prompt)-2, 1)
	m.cache.SetWidth(max(width-runewidth.StringWidth(cursorMark), 1))
	m.helpModal.SetSize(width, height)
	m.render()
	m.ensureCursorVisible()

	return m.scrollSignal()
}

func (m *CatalogModel) load(lang string, background bool) tea.Cmd {
	ctx, cat := m.ctx, m.catalog

	return func() tea.Msg {
		snapshot, err := cat.Load(ctx, lang)

		return LoadedMsg{Lang: lang, Snapshot: snapshot, Err: err, Background: background}
	}
}

func (m *CatalogModel) startLoad(lang string) tea.Cmd {
	m.loading = true
	m.status = ""

	return tea.Batch(m.spinner.Tick, m.load(lang, false))
}

func (m *CatalogModel) handleLoaded(msg LoadedMsg) tea.Cmd {
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrStaleLoad) {
			return nil
		}

		if msg.Background {
			m.logger.Warn("background refetch failed", zap.String("lang", msg.Lang), zap.Error(msg.Err))

			return nil
		}

		m.loading = false
		m.logger.Error("dataset load failed", zap.String("lang", msg.Lang), zap.Error(msg.Err))

		if m.loaded {
			m.status = domain.GetErrorInfo(msg.Err, false).Message

			return nil
		}

		details := NewErrorDetails(msg.Err, m.messages)

		return func() tea.Msg { return NavigateMsg{Screen: ErrorScreenID, Data: details} }
	}

	snapshot := msg.Snapshot
	if snapshot == nil {
		return nil
	}

	if !msg.Background {
		m.refetched = false
	}

	m.loading = false
	m.loaded = true
	m.status = ""
	m.fromCache = snapshot.FromCache
	m.truncated = snapshot.Truncated

	if snapshot.Lang != m.messages.Lang {
		m.setLanguage(snapshot.Lang)
	}

	m.cache.Reset()
	m.apply(!msg.Background)

	cmds := []tea.Cmd{m.prefetch(), m.scrollSignal()}

	if snapshot.Truncated && !m.refetched {
		m.refetched = true
		lang := snapshot.Lang

		cmds = append(cmds, tea.Tick(refetchDelay, func(time.Time) tea.Msg { return refetchMsg{lang: lang} }))
	}

	return tea.Batch(cmds...)
}

func (m *CatalogModel) setLanguage(lang string) {
	m.messages = i18n.For(lang)
	m.search.Prompt = m.messages.SearchPrompt
	m.helpModal.SetTitle(m.messages.HelpTitle)
}

// apply re-runs the pipeline. reset restores the initial render limit and
// moves the selection to the top; it is set for every filter, search, sort
// or mode change.
func (m *CatalogModel) apply(reset bool) {
	m.results = m.catalog.Filter(m.view)

	if reset {
		m.scroll.Reset()
		m.cursor = 0
		m.viewport.GotoTop()
	}

	m.cursor = min(m.cursor, max(m.visibleCount()-1, 0))
	m.render()
}

// changeView applies a new filter state from the top of the results.
func (m *CatalogModel) changeView(view catalog.ViewState) tea.Cmd {
	m.view = view
	m.apply(true)

	return tea.Batch(m.prefetch(), m.scrollSignal())
}

func (m *CatalogModel) visible() []catalog.Entry {
	return scroll.Visible(m.results, m.scroll.Limit())
}

func (m *CatalogModel) visibleCount() int {
	return len(m.visible())
}

// render rebuilds the viewport content from the view cache.
func (m *CatalogModel) render() {
	visible := m.visible()
	if len(visible) == 0 {
		m.rowSize = 1

		if m.loaded {
			m.viewport.SetContent(m.styles.MutedText.Render(m.messages.Empty))
		} else {
			m.viewport.SetContent("")
		}

		return
	}

	fragments := m.cache.Reconcile(m.projector.ProjectAll(visible), m.messages.Lang, m.layout)

	if m.layout == render.LayoutList {
		for i, fragment := range fragments {
			marker := strings.Repeat(" ", runewidth.StringWidth(cursorMark))
			if i == m.cursor {
				marker = lipgloss.NewStyle().Foreground(m.styles.Primary).Render(cursorMark)
			}

			fragments[i] = marker + fragment
		}

		m.rowSize = 1
		m.viewport.SetContent(strings.Join(fragments, "\n"))

		return
	}

	m.rowSize = max(lipgloss.Height(fragments[0]), 1)
	m.viewport.SetContent(render.Grid(fragments, m.columns()))
}

func (m *CatalogModel) columns() int {
	if m.layout == render.LayoutList {
		return 1
	}

	return render.Columns(m.width)
}

// scrollSignal reports the distance to the end of the rendered content and
// schedules a frame when none is pending.
func (m *CatalogModel) scrollSignal() tea.Cmd {
	remaining := max(m.viewport.TotalLineCount()-(m.viewport.YOffset+m.viewport.Height), 0)
	if !m.scroll.Signal(remaining, len(m.results)) {
		return nil
	}

	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return scrollFrameMsg{} })
}

func (m *CatalogModel) prefetch() tea.Cmd {
	visible := m.visible()
	if len(visible) == 0 {
		return nil
	}

	if m.prefetchCancel != nil {
		m.prefetchCancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.prefetchCancel = cancel

	cat, logger := m.catalog, m.logger
	entries := append([]catalog.Entry(nil), visible...)

	return func() tea.Msg {
		count, err := cat.Prefetch(ctx, entries)
		if err != nil {
			logger.Debug("prefetch stopped", zap.Error(err))
		}

		return PrefetchedMsg{Count: count}
	}
}

func (m *CatalogModel) toggleFavorite(id string) tea.Cmd {
	if id == "" {
		return nil
	}

	cat := m.catalog

	return func() tea.Msg {
		on, err := cat.ToggleFavorite(id)

		return FavoriteToggledMsg{ID: id, On: on, Err: err}
	}
}

func (m *CatalogModel) handleFavoriteToggled(msg FavoriteToggledMsg) {
	if msg.Err != nil {
		m.logger.Warn("favorite toggle failed", zap.String("id", msg.ID), zap.Error(msg.Err))
		m.status = domain.GetErrorInfo(msg.Err, false).Message

		return
	}

	if msg.On {
		m.status = fmt.Sprintf(m.messages.Added, msg.ID)
	} else {
		m.status = fmt.Sprintf(m.messages.Removed, msg.ID)
	}

	m.apply(false)
}

func (m *CatalogModel) showDetail() tea.Cmd {
	entry, ok := m.Selected()
	if !ok {
		return nil
	}

	ctx, cat := m.ctx, m.catalog

	return func() tea.Msg {
		result, err := cat.Show(ctx, entry.ID)

		return DetailMsg{Result: result, Err: err}
	}
}

//nolint:cyclop // key dispatch
func (m *CatalogModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.helpModal.Update(msg) {
		return nil
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.helpModal.Toggle()

		return nil
	case key.Matches(msg, m.keyMap.Search):
		return m.search.Focus()
	case key.Matches(msg, m.keyMap.Filter):
		return m.openForm()
	case key.Matches(msg, m.keyMap.Sort):
		view := m.view
		view.SortAscending = !view.SortAscending

		return m.changeView(view)
	case key.Matches(msg, m.keyMap.Random):
		view := m.view
		view.RandomMode = !view.RandomMode

		return m.changeView(view)
	case key.Matches(msg, m.keyMap.Clear):
		m.search.SetValue("")

		view := catalog.NewViewState()
		view.SortAscending = m.view.SortAscending

		return m.changeView(view)
	case key.Matches(msg, m.keyMap.Favorite):
		entry, _ := m.Selected()

		return m.toggleFavorite(entry.ID)
	case key.Matches(msg, m.keyMap.Language):
		return m.startLoad(i18n.Other(m.messages.Lang))
	case key.Matches(msg, m.keyMap.Reload):
		return m.startLoad(m.messages.Lang)
	case key.Matches(msg, m.keyMap.Layout):
		m.toggleLayout()

		return m.scrollSignal()
	case key.Matches(msg, m.keyMap.Detail):
		return m.showDetail()
	}

	return m.handleNavigationKey(msg)
}

func (m *CatalogModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case KeyEnter:
		m.search.Blur()

		return nil
	case KeyEsc:
		m.search.Blur()
		m.search.SetValue("")

		return m.changeView(m.view.WithQuery(""))
	}

	var cmd tea.Cmd

	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)

	if m.search.Value() == before {
		return cmd
	}

	return tea.Batch(cmd, m.changeView(m.view.WithQuery(m.search.Value())))
}

func (m *CatalogModel) handleNavigationKey(msg tea.KeyMsg) tea.Cmd {
	columns := m.columns()
	page := max(m.viewport.Height/max(m.rowSize, 1), 1) * columns

	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-columns)
	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(columns)
	case key.Matches(msg, m.keyMap.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keyMap.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.moveCursor(-page)
	case key.Matches(msg, m.keyMap.PageDown):
		m.moveCursor(page)
	case key.Matches(msg, m.keyMap.Top):
		m.moveCursor(-m.cursor)
	case key.Matches(msg, m.keyMap.Bottom):
		m.moveCursor(m.visibleCount())
	default:
		return nil
	}

	return m.scrollSignal()
}

func (m *CatalogModel) moveCursor(delta int) {
	count := m.visibleCount()
	if count == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), count-1)

	if m.layout == render.LayoutList {
		m.render()
	}

	m.ensureCursorVisible()
}

func (m *CatalogModel) ensureCursorVisible() {
	line := (m.cursor / m.columns()) * m.rowSize

	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line+m.rowSize > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line + m.rowSize - m.viewport.Height)
	}
}

func (m *CatalogModel) toggleLayout() {
	if m.layout == render.LayoutGrid {
		m.layout = render.LayoutList
	} else {
		m.layout = render.LayoutGrid
	}

	m.render()
	m.ensureCursorVisible()
}

func (m *CatalogModel) openForm() tea.Cmd {
	values := FilterValuesOf(m.view)
	m.filter = &values
	m.form = newFilterForm(m.messages, m.catalog.Attributes(), m.catalog.Creators(), m.filter)

	return m.form.Init()
}

func (m *CatalogModel) updateForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == KeyEsc {
		m.form = nil

		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		values := *m.filter
		m.form = nil

		return tea.Batch(cmd, m.ApplyFilter(values))
	case huh.StateAborted:
		m.form = nil
	case huh.StateNormal:
	}

	return cmd
}

// ApplyFilter replaces the attribute, creator and favorites filters.
func (m *CatalogModel) ApplyFilter(values FilterValues) tea.Cmd {
	return m.changeView(values.Apply(m.view))
}

// Selected returns the entry under the cursor.
func (m *CatalogModel) Selected() (catalog.Entry, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return catalog.Entry{}, false
	}

	return visible[m.cursor], true
}

// View renders the catalog screen.
func (m *CatalogModel) View() string {
	if m.helpModal.IsVisible() {
		return m.helpModal.View()
	}

	if m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", m.form.View())
	}

	body := m.viewport.View()
	if m.loading && !m.loaded {
		body = lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.messages.Loading)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.search.View(),
		body,
		m.renderStatus(),
		m.renderFooter(),
	)
}

func (m *CatalogModel) renderHeader() string {
	title := m.styles.Title.Render(m.messages.Title)

	flags := []string{
		fmt.Sprintf(m.messages.Count, min(m.scroll.Limit(), len(m.results)), len(m.results)),
		strings.ToUpper(m.messages.Lang),
	}

	switch {
	case m.view.RandomMode:
		flags = append(flags, m.messages.Random)
	case m.view.SortAscending:
		flags = append(flags, m.messages.Ascending)
	default:
		flags = append(flags, m.messages.Descending)
	}

	if m.view.Attribute != "" {
		flags = append(flags, m.messages.Attribute+": "+m.view.Attribute)
	}

	if m.view.Creator != "" {
		flags = append(flags, m.messages.Creator+": "+m.view.Creator)
	}

	if m.view.FavoritesOnly {
		flags = append(flags, "★")
	}

	if m.fromCache {
		flags = append(flags, m.messages.Cached)
	}

	if m.loading && m.loaded {
		flags = append(flags, m.spinner.View())
	}

	line := title + "  " + m.styles.MutedText.Render(strings.Join(flags, " · "))
	if m.truncated {
		line += "  " + m.styles.WarningText.Render("⚠ "+m.messages.Truncated)
	}

	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line)
}

func (m *CatalogModel) renderStatus() string {
	if m.status != "" {
		return m.styles.WarningText.Render(m.status)
	}

	entry, ok := m.Selected()
	if !ok {
		return ""
	}

	line := cursorMark + "#" + entry.ID + " " + entry.DisplayName()
	if entry.IsFavorite {
		line += " ★"
	}

	return lipgloss.NewStyle().Foreground(m.styles.Primary).Render(runewidth.Truncate(line, max(m.width, 1), "…"))
}

func (m *CatalogModel) renderFooter() string {
	return RenderFooter(m.styles, m.width, []FooterAction{
		{Key: "/", Action: "Search"},
		{Key: "f", Action: m.messages.FilterTitle},
		{Key: "*", Action: m.messages.Favorite},
		{Key: "enter", Action: "Details"},
		{Key: "q", Action: "Quit"},
	}, true)
}

// ViewState returns the current filter selection.
func (m *CatalogModel) ViewState() catalog.ViewState {
	return m.view
}

// Results returns the full filtered result list.
func (m *CatalogModel) Results() []catalog.Entry {
	return m.results
}

// Limit returns the current render limit.
func (m *CatalogModel) Limit() int {
	return m.scroll.Limit()
}

// Layout returns the current layout.
func (m *CatalogModel) Layout() render.Layout {
	return m.layout
}

// Cursor returns the selected index within the visible results.
func (m *CatalogModel) Cursor() int {
	return m.cursor
}

// IsLoading reports whether a foreground load is in flight.
func (m *CatalogModel) IsLoading() bool {
	return m.loading
}

// Lang returns the language of the displayed catalog.
func (m *CatalogModel) Lang() string {
	return m.messages.Lang
}

// Messages returns the active localized strings.
func (m *CatalogModel) Messages() i18n.Messages {
	return m.messages
}

// Status returns the transient status line.
func (m *CatalogModel) Status() string {
	return m.status
}

// CacheStats exposes the view cache counters.
func (m *CatalogModel) CacheStats() render.Stats {
	return m.cache.Stats()
}
