// Package tui is a small read-only browser over the symbol bucket and
// the local run history. It never mutates anything remote.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type screen int

const (
	screenHome screen = iota
	screenDetail
)

const recentRunLimit = 30

type menuItem struct {
	title string
	desc  string

	// osName is set for bucket-browse entries; empty for the runs entry.
	osName string
	runs   bool
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

// bundlesLoadedMsg and runsLoadedMsg carry detail-screen content back
// from the async loaders.
type bundlesLoadedMsg struct {
	osName  string
	bundles []string
	err     error
}

type runsLoadedMsg struct {
	runs []ports.RunSummary
	err  error
}

type model struct {
	theme Theme
	deps  Deps

	scr        screen
	menu       list.Model
	activeName string

	loading bool
	lines   []string
	loadErr error
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	items := make([]list.Item, 0, len(deps.OSNames)+2)
	for _, osName := range deps.OSNames {
		items = append(items, menuItem{
			title:  "Bundles: " + osName,
			desc:   fmt.Sprintf("Symbol bundles present in the bucket for %s", osName),
			osName: osName,
		})
	}
	items = append(items,
		menuItem{title: "Recent runs", desc: "Import runs recorded on this machine", runs: true},
		menuItem{title: "Quit", desc: "Exit"},
	)

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "symimport"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenHome,
		menu:  l,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) loadBundles(osName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		bundles, err := m.deps.Bundles.List(ctx, osName)
		return bundlesLoadedMsg{osName: osName, bundles: bundles, err: err}
	}
}

func (m model) loadRuns() tea.Cmd {
	return func() tea.Msg {
		runs, err := m.deps.Runs.ListRuns(recentRunLimit)
		return runsLoadedMsg{runs: runs, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case bundlesLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.lines = msg.bundles
		if msg.err != nil && m.deps.Logger != nil {
			m.deps.Logger.Error("tui.bundle_list_failed", "os_name", msg.osName, "error", msg.err)
		}
		return m, nil

	case runsLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.lines = formatRuns(msg.runs)
		if msg.err != nil && m.deps.Logger != nil {
			m.deps.Logger.Error("tui.run_list_failed", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m = m.backHome()
			return m, nil

		case "enter":
			if m.scr == screenHome {
				it, ok := m.menu.SelectedItem().(menuItem)
				if !ok {
					return m, nil
				}
				if strings.EqualFold(it.title, "Quit") {
					return m, tea.Quit
				}

				m.scr = screenDetail
				m.activeName = it.title
				m.loading = true
				m.lines = nil
				m.loadErr = nil

				if it.runs {
					return m, m.loadRuns()
				}
				return m, m.loadBundles(it.osName)
			}

		case "esc", "b":
			if m.scr != screenHome {
				m = m.backHome()
				return m, nil
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) backHome() model {
	m.scr = screenHome
	m.activeName = ""
	m.loading = false
	m.lines = nil
	m.loadErr = nil
	return m
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("symimport") + "\n" +
		m.theme.Subtitle.Render("Apple system symbols importer") + "\n"

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.menu.View()) + "\n" + help)

	case screenDetail:
		var body string
		switch {
		case m.loading:
			body = m.theme.Subtitle.Render("Loading…")
		case m.loadErr != nil:
			body = m.theme.Error.Render("Error: " + m.loadErr.Error())
		case len(m.lines) == 0:
			body = m.theme.Subtitle.Render("Nothing here yet.")
		default:
			body = strings.Join(m.lines, "\n")
		}

		card := m.theme.Card.Render(
			m.theme.Title.Render(m.activeName) + "\n\n" + body + "\n\n" +
				m.theme.Help.Render("esc/b back • q home"),
		)
		return wrap.Render(header + "\n" + card)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}

func formatRuns(runs []ports.RunSummary) []string {
	lines := make([]string, 0, len(runs))
	for _, r := range runs {
		osName := r.OSName
		if osName == "" {
			osName = "simulators"
		}
		lines = append(lines, fmt.Sprintf("%s  %-10s %-9s imported=%d failed=%d",
			r.StartedAt, osName, r.Source, r.Imported, r.Failed))
	}
	return lines
}
