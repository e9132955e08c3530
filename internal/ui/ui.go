// Package ui implements an interactive terminal browser over the client
// data layer using bubbletea's Elm architecture.
//
// The browse view shows the collection, wishlist and catalog search tabs;
// typing filters the active tab through the debounced, cached queries in
// internal/client. Login and onboarding views are gated by the session
// guard, so the TUI follows the same redirect rules as any other client.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/client"
	"github.com/waxlog/waxlog/internal/db"
)

// Tab selects which list the browse view shows.
type Tab int

const (
	TabCollection Tab = iota
	TabWishlist
	TabCatalog
)

func (t Tab) String() string {
	switch t {
	case TabCollection:
		return "collection"
	case TabWishlist:
		return "wishlist"
	case TabCatalog:
		return "catalog"
	}
	return "unknown"
}

type sessionMsg struct {
	user *db.User
	err  error
}

type authResultMsg struct {
	user *db.User
	err  error
}

type mutationMsg struct {
	verb string
	err  error
}

type vinylSnapshotMsg client.Snapshot[db.Album]

type catalogSnapshotMsg client.Snapshot[catalog.Album]

type debouncedTermMsg string

type availabilityMsg client.AvailabilityResult

// Model is the TUI application state.
type Model struct {
	ctx context.Context
	lib *client.Library

	route   string
	pending bool
	user    *db.User
	fatal   error
	status  string

	tab    Tab
	term   string
	search textinput.Model
	spin   spinner.Model
	cursor int

	debounce *client.Debouncer
	vinyls   *client.ListQuery[db.Album]
	catalogQ *client.ListQuery[catalog.Album]
	vinylSn  client.Snapshot[db.Album]
	catSn    client.Snapshot[catalog.Album]

	form    authForm
	checker *client.AvailabilityChecker
	avail   client.AvailabilityResult

	events chan tea.Msg
}

// NewModel creates the TUI over an API client and its cache.
func NewModel(ctx context.Context, lib *client.Library) *Model {
	search := textinput.New()
	search.Placeholder = "type to search"
	search.CharLimit = 64
	search.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := &Model{
		ctx:      ctx,
		lib:      lib,
		route:    client.RouteHome,
		pending:  true,
		search:   search,
		spin:     spin,
		debounce: client.NewDebouncer(client.DefaultDebounce),
		form:     newAuthForm(),
		events:   make(chan tea.Msg, 64),
	}

	m.vinyls = lib.VinylQuery(func(s client.Snapshot[db.Album]) {
		m.events <- vinylSnapshotMsg(s)
	})
	m.catalogQ = lib.CatalogQuery(func(s client.Snapshot[catalog.Album]) {
		m.events <- catalogSnapshotMsg(s)
	})
	m.checker = client.NewAvailabilityChecker(
		lib.API().UsernameAvailable,
		client.DefaultDebounce,
		func(r client.AvailabilityResult) { m.events <- availabilityMsg(r) },
	)
	return m
}

// Init resolves the session and starts the event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadSession(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.route {
		case client.RouteLogin:
			return m.handleLoginKeys(msg)
		case client.RouteOnboarding:
			return m.handleOnboardingKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionMsg:
		m.pending = false
		if msg.err != nil {
			m.fatal = msg.err
			return m, tea.Quit
		}
		m.user = msg.user
		m.applyGuard()
		if m.route == client.RouteHome {
			m.setListKey(m.term)
		}
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.user = msg.user
		m.status = ""
		m.applyGuard()
		if m.route == client.RouteHome {
			m.setListKey(m.term)
		}
		return m, nil

	case mutationMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.verb
		}
		return m, nil

	case vinylSnapshotMsg:
		m.vinylSn = client.Snapshot[db.Album](msg)
		m.clampCursor()
		return m, m.waitForEvent()

	case catalogSnapshotMsg:
		m.catSn = client.Snapshot[catalog.Album](msg)
		m.clampCursor()
		return m, m.waitForEvent()

	case debouncedTermMsg:
		m.term = string(msg)
		m.setListKey(m.term)
		return m, m.waitForEvent()

	case availabilityMsg:
		m.avail = client.AvailabilityResult(msg)
		return m, m.waitForEvent()
	}

	return m, nil
}

// View renders the UI for the current route.
func (m *Model) View() string {
	if m.fatal != nil {
		return styles.err.Render(fmt.Sprintf("error: %v", m.fatal)) + "\n"
	}
	if client.Decide(m.sessionState(), m.route) == client.Block {
		return fmt.Sprintf("\n  %s resolving session…\n", m.spin.View())
	}

	switch m.route {
	case client.RouteLogin:
		return m.renderLogin()
	case client.RouteOnboarding:
		return m.renderOnboarding()
	default:
		return m.renderBrowse()
	}
}

func (m *Model) sessionState() client.SessionState {
	switch {
	case m.pending:
		return client.SessionPending
	case m.user == nil:
		return client.SessionAnonymous
	case m.user.Username == nil:
		return client.SessionNeedsUsername
	default:
		return client.SessionReady
	}
}

// applyGuard follows redirect decisions until the route settles.
func (m *Model) applyGuard() {
	for {
		switch client.Decide(m.sessionState(), m.route) {
		case client.RedirectLogin:
			m.route = client.RouteLogin
		case client.RedirectHome:
			m.route = client.RouteHome
		case client.RedirectOnboarding:
			m.route = client.RouteOnboarding
			m.form.username.Focus()
		default:
			return
		}
	}
}

func (m *Model) loadSession() tea.Cmd {
	return func() tea.Msg {
		user, err := m.lib.API().Session(m.ctx)
		return sessionMsg{user: user, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m *Model) scope() string {
	if m.user != nil && m.user.Username != nil {
		return *m.user.Username
	}
	return ""
}

func (m *Model) setListKey(term string) {
	switch m.tab {
	case TabCollection:
		m.vinyls.SetKey(m.ctx, client.Key{Kind: client.KindCollection, Scope: m.scope(), Term: term})
	case TabWishlist:
		m.vinyls.SetKey(m.ctx, client.Key{Kind: client.KindWishlist, Scope: m.scope(), Term: term})
	case TabCatalog:
		m.catalogQ.SetKey(m.ctx, client.Key{Kind: client.KindCatalog, Term: term})
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % 3
		m.cursor = 0
		m.setListKey(m.term)
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "enter":
		if m.tab == TabCatalog {
			return m, m.addFromCatalog(db.TypeCollection)
		}
		return m, nil
	case "ctrl+w":
		if m.tab == TabCatalog {
			return m, m.addFromCatalog(db.TypeWishlist)
		}
		return m, nil
	case "ctrl+x":
		if m.tab != TabCatalog {
			return m, m.removeSelected()
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		m.debounce.Set(value, func(settled string) {
			m.events <- debouncedTermMsg(settled)
		})
	}
	return m, cmd
}

// addFromCatalog saves the selected catalog result to the session user's
// collection or wishlist.
func (m *Model) addFromCatalog(kind string) tea.Cmd {
	if m.user == nil || m.user.Username == nil {
		m.status = "sign in to add records"
		return nil
	}
	if m.cursor >= len(m.catSn.Data) {
		return nil
	}
	album := m.catSn.Data[m.cursor]
	owner := *m.user.Username
	input := client.AlbumInput{
		Name:        album.Name,
		Artist:      album.Artist,
		Image:       album.Image,
		ReleaseDate: album.ReleaseDate,
		Variant:     album.Variant,
		Genres:      album.Genres,
		Type:        kind,
	}
	return func() tea.Msg {
		_, err := m.lib.AddVinyl(m.ctx, owner, input)
		return mutationMsg{verb: "added " + album.Name, err: err}
	}
}

func (m *Model) removeSelected() tea.Cmd {
	if m.user == nil || m.user.Username == nil {
		return nil
	}
	if m.cursor >= len(m.vinylSn.Data) {
		return nil
	}
	album := m.vinylSn.Data[m.cursor]
	owner := *m.user.Username
	return func() tea.Msg {
		err := m.lib.RemoveVinyl(m.ctx, owner, album.ID)
		return mutationMsg{verb: "removed " + album.Name, err: err}
	}
}

func (m *Model) clampCursor() {
	n := len(m.vinylSn.Data)
	if m.tab == TabCatalog {
		n = len(m.catSn.Data)
	}
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) renderBrowse() string {
	var b strings.Builder

	owner := "anonymous"
	if m.user != nil && m.user.Username != nil {
		owner = *m.user.Username
	}
	b.WriteString(styles.title.Render("waxlog — "+owner) + "\n")

	var tabs []string
	for t := TabCollection; t <= TabCatalog; t++ {
		label := t.String()
		if t == m.tab {
			tabs = append(tabs, styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + "\n\n")
	b.WriteString(m.search.View() + "\n\n")

	if m.tab == TabCatalog {
		b.WriteString(renderList(m.catSn, m.cursor, m.spin.View(), m.term, catalogRow))
	} else {
		b.WriteString(renderList(m.vinylSn, m.cursor, m.spin.View(), m.term, vinylRow))
	}

	if m.status != "" {
		b.WriteString("\n" + styles.dim.Render(m.status) + "\n")
	}
	b.WriteString("\n" + styles.help.Render("tab switch · enter add · ctrl+w wishlist · ctrl+x remove · esc quit") + "\n")
	return b.String()
}

// renderList renders one snapshot's rows, keeping the three result states
// visually distinct: spinner while loading, "no results" on zero matches,
// error line on failure. Stale rows are dimmed while a fetch is in flight.
func renderList[E any](sn client.Snapshot[E], cursor int, spin, term string, row func(E) string) string {
	switch sn.State {
	case client.StateIdle, client.StateLoading:
		return fmt.Sprintf("  %s loading…\n", spin)
	case client.StateError:
		return styles.err.Render(fmt.Sprintf("  search failed: %v", sn.Err)) + "\n"
	}

	if sn.Empty() {
		return styles.dim.Render(fmt.Sprintf("  no results for %q", term)) + "\n"
	}

	var b strings.Builder
	for i, item := range sn.Data {
		marker := "  "
		if i == cursor {
			marker = "› "
		}
		line := marker + row(item)
		if sn.Stale {
			line = styles.dim.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func vinylRow(a db.Album) string {
	return fmt.Sprintf("%s — %s (%s)", a.Artist, a.Name, a.ReleaseDate)
}

func catalogRow(a catalog.Album) string {
	return fmt.Sprintf("%s — %s (%s)", a.Artist, a.Name, a.ReleaseDate)
}
