// Package tui is the interactive inspector: a program editor next to a live
// circuit diagram and a histogram of shot results.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"qcircuit/circuit"
	"qcircuit/internal/runner"
	"qcircuit/qasm"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusEditor
	focusMenu
)

// defaultSavePath is written by ^S when the program was not loaded from a file.
const defaultSavePath = "circuit.qasm"

// Options configure a new Model.
type Options struct {
	// Path is the file the program was loaded from and is saved to.
	Path string
	// Source is the initial program text.
	Source    string
	Run       runner.Options
	Dialect   qasm.Dialect
	Precision int
	// Changes, when set, delivers new versions of the file at Path.
	Changes <-chan Change
}

// Model represents the TUI application state.
type Model struct {
	path      string
	editor    textarea.Model
	diagram   *Diagram
	lastText  string
	parseErr  error
	result    *runner.Result
	runErr    error
	running   bool
	opts      runner.Options
	dialect   qasm.Dialect
	precision int
	changes   <-chan Change

	focus       focus
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	statusMsg   string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int
}

type (
	changeMsg  Change
	runDoneMsg struct {
		res *runner.Result
		err error
	}
)

// New returns the inspector for opts.Source.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Write a program here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(opts.Source)

	if opts.Run.Shots < 1 {
		opts.Run.Shots = 1
	}
	m := Model{
		path:      opts.Path,
		editor:    ta,
		diagram:   Layout(nil, 1),
		opts:      opts.Run,
		dialect:   opts.Dialect,
		precision: opts.Precision,
		changes:   opts.Changes,
		focus:     focusCircuit,
	}
	m.relayout()
	return m
}

// relayout re-parses the editor text and rebuilds the diagram. A text that
// does not parse keeps the previous diagram and records the error.
func (m *Model) relayout() {
	text := m.editor.Value()
	if text == m.lastText && m.lastText != "" {
		return
	}
	m.lastText = text
	c, err := circuit.Parse(text)
	if err != nil {
		m.parseErr = err
		return
	}
	m.parseErr = nil
	m.diagram = Layout(c.Program(), c.NumQubits())
	m.cursorQubit = min(m.cursorQubit, c.NumQubits()-1)
}

// format rewrites the editor text in canonical form for the current dialect.
func (m *Model) format() {
	c, err := circuit.Parse(m.editor.Value())
	if err != nil {
		m.parseErr = err
		return
	}
	m.editor.SetValue(c.Text(m.dialect))
	m.relayout()
}

func (m *Model) save() {
	path := m.path
	if path == "" {
		path = defaultSavePath
	}
	if err := os.WriteFile(path, []byte(m.editor.Value()), 0644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
		return
	}
	m.statusMsg = "Saved " + path
	log.WithField("path", path).Info("program saved")
}

// insert appends the selected menu snippet as new lines of the program.
func (m *Model) insert(item menuItem) bool {
	snippet, err := snippetFor(item, m.cursorQubit)
	if err != nil {
		m.statusMsg = err.Error()
		return false
	}
	text := m.editor.Value()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	m.editor.SetValue(text + snippet)
	m.relayout()
	m.cursorStep = max(m.diagram.Steps()-1, 0)
	return true
}

func runProgram(src string, opts runner.Options) tea.Cmd {
	return func() tea.Msg {
		res, err := runner.Run(src, opts)
		return runDoneMsg{res: res, err: err}
	}
}

func waitForChange(ch <-chan Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width/3-6, 20))
		m.editor.SetHeight(max(msg.Height-12, 4))

	case changeMsg:
		cmds = append(cmds, waitForChange(m.changes))
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Reload error: %v", msg.Err)
			break
		}
		if msg.Text != m.editor.Value() {
			m.editor.SetValue(msg.Text)
			m.relayout()
			m.statusMsg = "Reloaded " + m.path
		}

	case runDoneMsg:
		m.running = false
		m.statusMsg = ""
		m.result, m.runErr = msg.res, msg.err

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch key {
		case "ctrl+r":
			if m.running {
				return m, nil
			}
			m.running = true
			m.statusMsg = "Running..."
			return m, runProgram(m.editor.Value(), m.opts)
		case "ctrl+s":
			m.save()
			return m, nil
		case "ctrl+f":
			m.format()
			return m, nil
		case "ctrl+d":
			if m.dialect == qasm.V2 {
				m.dialect = qasm.V3
			} else {
				m.dialect = qasm.V2
			}
			m.format()
			return m, nil
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.diagram.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.diagram.Steps() {
					m.cursorStep++
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				if m.insert(gateMenu[m.menuCat].items[m.menuItem]) {
					m.focus = focusCircuit
				}
			}

		case focusEditor:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.editor.Blur()
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				cmds = append(cmds, cmd)
				m.relayout()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	editorWidth := m.width / 3
	leftWidth := m.width - editorWidth - 4
	bodyHeight := max(m.height-6, 12)
	resultsHeight := min(histRows*2+5, bodyHeight/2)
	circuitHeight := bodyHeight - resultsHeight - 2

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCircuitPanel(leftWidth, circuitHeight),
		m.renderResultsPanel(leftWidth, resultsHeight))
	right := m.renderEditorPanel(editorWidth, bodyHeight)
	frame := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.renderControlsPanel(m.width-4))

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	return frame
}
