package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cloudweave/cloudweave/pkg/layout"
	"github.com/cloudweave/cloudweave/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// strategyItem is one selectable layout strategy with a short description.
type strategyItem struct {
	Strategy layout.Strategy
	Desc     string
}

// strategyItems lists the strategies in presentation order.
var strategyItems = []strategyItem{
	{layout.StrategyLayered, "constraint-based layered placement, respects containment"},
	{layout.StrategyGrid, "row-major grid, ignores edges, fast and deterministic"},
	{layout.StrategyForce, "physics simulation, organic positions for small graphs"},
}

// =============================================================================
// StrategyListModel - Interactive strategy selection
// =============================================================================

// StrategyListModel is the bubbletea model for picking a layout strategy.
type StrategyListModel struct {
	Items    []strategyItem
	Cursor   int
	Selected *strategyItem
}

// NewStrategyListModel creates a strategy list with the cursor on preselect,
// or on the pipeline default when preselect names no known strategy.
func NewStrategyListModel(preselect string) StrategyListModel {
	m := StrategyListModel{Items: strategyItems}
	want := layout.Strategy(preselect)
	if want == "" {
		want = pipeline.DefaultStrategy
	}
	for i, item := range m.Items {
		if item.Strategy == want {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m StrategyListModel) Init() tea.Cmd {
	return nil
}

func (m StrategyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "enter":
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StrategyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout Strategy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		cursor := "  "
		nameStyle := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			nameStyle = listSelectedStyle
		}
		b.WriteString(cursor + nameStyle.Render(string(item.Strategy)))
		b.WriteString("\n")
		b.WriteString("    " + listDimStyle.Render(item.Desc))
		b.WriteString("\n")
	}

	return b.String()
}

// pickStrategy runs the interactive strategy picker. The bool reports
// whether a strategy was chosen; quitting without selecting returns false.
func pickStrategy(preselect string) (string, bool, error) {
	p := tea.NewProgram(NewStrategyListModel(preselect))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("strategy picker: %w", err)
	}
	m, ok := final.(StrategyListModel)
	if !ok || m.Selected == nil {
		return "", false, nil
	}
	return string(m.Selected.Strategy), true, nil
}

// =============================================================================
// FileListModel - Interactive input file selection
// =============================================================================

// FileListModel is the bubbletea model for picking an input file when the
// command was run without one.
type FileListModel struct {
	Title    string
	Files    []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewFileListModel creates a file list model over the given candidates.
func NewFileListModel(title string, files []string) FileListModel {
	return FileListModel{Title: title, Files: files, Height: 15}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Files[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m FileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Files) {
		end = len(m.Files)
	}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.Files[i]))
		b.WriteString("\n")
	}

	return b.String()
}

// resolveInput returns the positional argument when one was given, or runs
// the file picker. A cancelled pick returns ok=false with no error.
func resolveInput(args []string, title string, diagrams bool) (string, bool, error) {
	if len(args) > 0 {
		return args[0], true, nil
	}
	input, ok, err := pickInputFile(title, diagrams)
	if err != nil {
		return "", false, err
	}
	if !ok {
		printInfo("Cancelled")
		return "", false, nil
	}
	return input, true, nil
}

// pickInputFile lists JSON files in the working directory and lets the user
// choose one. Diagram documents and inventories are kept apart: diagrams
// reports whether *.diagram.json files are wanted or excluded.
func pickInputFile(title string, diagrams bool) (string, bool, error) {
	matches, err := filepath.Glob("*.json")
	if err != nil {
		return "", false, fmt.Errorf("scan working directory: %w", err)
	}

	var files []string
	for _, f := range matches {
		if strings.HasSuffix(f, ".diagram.json") == diagrams {
			files = append(files, f)
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return "", false, fmt.Errorf("no candidate JSON files in the working directory")
	}

	p := tea.NewProgram(NewFileListModel(title, files))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("file picker: %w", err)
	}
	m, ok := final.(FileListModel)
	if !ok || m.Selected == "" {
		return "", false, nil
	}
	return m.Selected, true, nil
}
