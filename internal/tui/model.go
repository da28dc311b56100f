// Package tui is the Bubble Tea front end for the task store.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todokeep/internal/todo"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeConfirmClearAll
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C678DD"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F848E")).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F848E"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Foreground(lipgloss.Color("#98C379")).Underline(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")).Bold(true)
	filterLabels  = map[todo.FilterMode]string{todo.FilterAll: "All", todo.FilterActive: "Active", todo.FilterCompleted: "Completed"}
	helpLineNorm  = "a add · space toggle · d delete · c clear done · C clear all · tab filter · q quit"
	helpLineAdd   = "enter save · esc cancel"
	helpLineClear = "y confirm · any other key cancels"
)

type Model struct {
	store    *todo.Store
	selector *todo.Selector
	title    string

	mode   mode
	input  textinput.Model
	cursor int
	status string
	width  int
}

func New(store *todo.Store, selector *todo.Selector, title string) Model {
	if selector == nil {
		selector = todo.NewSelector()
	}
	if title == "" {
		title = "To-do"
	}
	in := textinput.New()
	in.Placeholder = "Add a new task..."
	in.CharLimit = 280
	return Model{
		store:    store,
		selector: selector,
		title:    title,
		input:    in,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmClearAll:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.selector.View(m.store)
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a", "n":
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ", "x", "enter":
		if t, ok := m.selected(visible); ok {
			_, _, err := m.store.Toggle(t.ID)
			m.reportErr(err)
		}
	case "d", "delete":
		if t, ok := m.selected(visible); ok {
			_, err := m.store.Remove(t.ID)
			m.reportErr(err)
		}
	case "c":
		removed, err := m.store.ClearCompleted()
		if err == nil {
			m.status = fmt.Sprintf("removed %d completed", removed)
		}
		m.reportErr(err)
	case "C":
		m.mode = modeConfirmClearAll
	case "tab":
		m.selector.Cycle()
		m.cursor = 0
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		_, created, err := m.store.Add(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		m.input.SetValue("")
		if created {
			m.cursor = 0
		}
		m.reportErr(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateConfirm is the y/n gate in front of ClearAll.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	answer := todo.Answer(msg.String() == "y" || msg.String() == "Y")
	cleared, err := m.store.ClearAll(answer)
	switch {
	case err != nil:
		m.reportErr(err)
	case cleared:
		m.status = "all tasks deleted"
		m.cursor = 0
	default:
		m.status = "kept"
	}
	return m, nil
}

func (m Model) selected(visible []todo.Task) (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.selector.View(m.store))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) reportErr(err error) {
	if err != nil {
		m.status = "not saved: " + err.Error()
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	current := m.selector.Mode()
	tabs := make([]string, 0, 3)
	for _, fm := range todo.FilterModes() {
		style := tabStyle
		if fm == current {
			style = activeTab
		}
		tabs = append(tabs, style.Render(filterLabels[fm]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	sum := m.store.Summary(current)
	if len(sum.Tasks) == 0 {
		b.WriteString(metaStyle.Render("No tasks to show."))
		b.WriteString("\n")
	}
	for i, t := range sum.Tasks {
		pointer := "  "
		if i == m.cursor && m.mode == modeNormal {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ] "
		text := t.Text
		if t.Done {
			box = "[x] "
			text = doneStyle.Render(text)
		}
		b.WriteString(pointer + box + text + "  " + metaStyle.Render(t.Created().Local().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d done\n", sum.CompletedCount, sum.Total))

	switch m.mode {
	case modeAdd:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(helpLineAdd))
	case modeConfirmClearAll:
		b.WriteString(confirmStyle.Render(m.store.ConfirmMessage() + " (y/N)"))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(helpLineClear))
	default:
		if m.status != "" {
			b.WriteString(statusStyle.Render(m.status))
			b.WriteString("\n")
		}
		b.WriteString(metaStyle.Render(helpLineNorm))
	}
	b.WriteString("\n")
	return b.String()
}
