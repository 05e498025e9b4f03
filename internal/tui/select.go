// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scanerrors "github.com/springymate/book-scanner/internal/errors"
)

const (
	defaultListWidth  = 48
	defaultListHeight = 18
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user confirmed a selection.
	ActionSelected
	// ActionStopped indicates the user cancelled.
	ActionStopped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action SelectionAction
	Genres []string
}

type genreItem struct {
	name      string
	suggested bool
	checked   bool
}

func (i genreItem) FilterValue() string { return i.name }

type itemStyles struct {
	normal    lipgloss.Style
	cursor    lipgloss.Style
	checked   lipgloss.Style
	suggested lipgloss.Style
}

func newItemStyles() itemStyles {
	return itemStyles{
		normal: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("252")),
		cursor: lipgloss.NewStyle().
			PaddingLeft(2).
			Bold(true).
			Foreground(lipgloss.Color("214")),
		checked: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
		suggested: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type genreDelegate struct {
	styles itemStyles
}

func newDelegate() genreDelegate {
	return genreDelegate{styles: newItemStyles()}
}

func (d genreDelegate) Height() int                         { return 1 }
func (d genreDelegate) Spacing() int                        { return 0 }
func (d genreDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d genreDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	g, ok := item.(genreItem)
	if !ok {
		return
	}

	box := "[ ]"
	if g.checked {
		box = d.styles.checked.Render("[x]")
	}
	line := box + " " + g.name
	if g.suggested {
		line += " " + d.styles.suggested.Render("(suggested)")
	}

	style := d.styles.normal
	if idx == m.Index() {
		style = d.styles.cursor
	}
	_, _ = fmt.Fprint(w, style.Render(line))
}

type model struct {
	list   list.Model
	result SelectionResult
}

func newModel(items []genreItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:   l,
		result: SelectionResult{Action: ActionNone},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "x":
			idx := m.list.Index()
			if g, ok := m.list.SelectedItem().(genreItem); ok {
				g.checked = !g.checked
				return m, m.list.SetItem(idx, g)
			}
			return m, nil
		case "enter":
			m.result = SelectionResult{Action: ActionSelected, Genres: m.checked()}
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.result = SelectionResult{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 24)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) checked() []string {
	var out []string
	for _, it := range m.list.Items() {
		if g, ok := it.(genreItem); ok && g.checked {
			out = append(out, g.name)
		}
	}
	return out
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Pick genres for recommendations (%d selected)", len(m.checked())))
	help := helpStyle.Render("Up/Down navigate | Space toggle | Enter confirm | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectGenres presents a multi-select over options with the suggested
// genres pre-checked. Cancelling returns a StopProcessingError.
func SelectGenres(options, suggested []string) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	pre := make(map[string]bool, len(suggested))
	for _, s := range suggested {
		pre[strings.ToLower(s)] = true
	}

	items := make([]genreItem, len(options))
	for i, o := range options {
		isSuggested := pre[strings.ToLower(o)]
		items[i] = genreItem{name: o, suggested: isSuggested, checked: isSuggested}
	}

	finalModel, err := runProgram(newModel(items))
	if err != nil {
		return nil, err
	}

	typed, ok := finalModel.(*model)
	if !ok {
		return nil, fmt.Errorf("unexpected program result")
	}

	if typed.result.Action != ActionSelected {
		return nil, scanerrors.NewStopProcessingError("genre selection cancelled by user")
	}
	return typed.result.Genres, nil
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
