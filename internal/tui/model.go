// Package tui is the interactive front end for reviewing and editing
// generated tags. It drives the workflow engine and renders its
// connectivity status, selection, and streaming result log.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tagsense/internal/workflow"
	"tagsense/pkg/types"
)

// inputTarget says what the text input at the bottom of the screen is
// collecting, if anything.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputFilePath
	inputFolderPath
	inputTag
)

// Messages crossing from the engine and its operations into the model
type (
	healthChangedMsg types.ConnectivityStatus
	engineStatusMsg  string
	resultStreamMsg  types.ProcessingResult
	fileDoneMsg      struct{ err error }
	folderDoneMsg    struct {
		success, fail int
		err           error
	}
)

// Model is the bubbletea model wrapping the workflow engine
type Model struct {
	engine *workflow.Engine
	events chan tea.Msg

	status     types.ConnectivityStatus
	statusLine string
	results    []types.ProcessingResult
	cursor     int
	tagCursor  int
	busy       bool

	input  textinput.Model
	target inputTarget

	width  int
	height int
}

// New creates a TUI model bound to an engine. Engine callbacks are
// forwarded into the bubbletea event loop through a buffered channel.
func New(engine *workflow.Engine) *Model {
	ti := textinput.New()
	ti.CharLimit = 256

	m := &Model{
		engine: engine,
		events: make(chan tea.Msg, 64),
		status: engine.Monitor().Status(),
		input:  ti,
	}

	engine.Monitor().OnChange(func(s types.ConnectivityStatus) {
		m.push(healthChangedMsg(s))
	})
	engine.OnStatus(func(msg string) {
		m.push(engineStatusMsg(msg))
	})
	engine.OnResult(func(r types.ProcessingResult) {
		m.push(resultStreamMsg(r))
	})

	return m
}

// push forwards an engine event without ever blocking the engine
func (m *Model) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// waitEvent returns a command that delivers the next engine event
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// checkHealth probes the collaborator off the UI loop
func (m *Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		return healthChangedMsg(m.engine.Monitor().Check(context.Background()))
	}
}

// processFile runs the single-file dispatch off the UI loop
func (m *Model) processFile() tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.ProcessFile(context.Background())
		return fileDoneMsg{err: err}
	}
}

// processFolder runs the folder batch off the UI loop; results stream in
// through resultStreamMsg while it runs
func (m *Model) processFolder() tea.Cmd {
	return func() tea.Msg {
		s, f, err := m.engine.ProcessFolder(context.Background())
		return folderDoneMsg{success: s, fail: f, err: err}
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.waitEvent())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case healthChangedMsg:
		m.status = types.ConnectivityStatus(msg)
		return m, m.waitEvent()

	case engineStatusMsg:
		m.statusLine = string(msg)
		return m, m.waitEvent()

	case resultStreamMsg:
		m.refresh()
		return m, m.waitEvent()

	case fileDoneMsg, folderDoneMsg:
		m.busy = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.target != inputNone {
			return m.handleInputKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	return m, nil
}

// refresh re-reads the result log snapshot and clamps the cursors
func (m *Model) refresh() {
	m.results = m.engine.Results().Entries()
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampTagCursor()
}

func (m *Model) clampTagCursor() {
	if len(m.results) == 0 {
		m.tagCursor = 0
		return
	}
	tags := m.results[m.cursor].Tags
	if m.tagCursor >= len(tags) {
		m.tagCursor = len(tags) - 1
	}
	if m.tagCursor < 0 {
		m.tagCursor = 0
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		return m, m.checkHealth()

	case "f":
		m.openInput(inputFilePath, "file path")
		return m, textinput.Blink

	case "o":
		m.openInput(inputFolderPath, "folder path")
		return m, textinput.Blink

	case "p":
		if m.busy || !m.engine.CanDispatch() {
			return m, nil
		}
		m.busy = true
		if m.engine.Selection().Kind == types.SelectFolder {
			return m, m.processFolder()
		}
		return m, m.processFile()

	case "j", "down":
		if m.cursor < len(m.results)-1 {
			m.cursor++
			m.tagCursor = 0
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.tagCursor = 0
		}

	case "h", "left":
		if m.tagCursor > 0 {
			m.tagCursor--
		}

	case "l", "right":
		if len(m.results) > 0 && m.tagCursor < len(m.results[m.cursor].Tags)-1 {
			m.tagCursor++
		}

	case "e", "enter":
		if len(m.results) == 0 {
			return m, nil
		}
		r := m.results[m.cursor]
		if m.engine.Editor().StartEdit(r.ID, m.tagCursor) {
			session, _ := m.engine.Editor().Session()
			m.openInput(inputTag, "tag")
			m.input.SetValue(session.PendingValue)
			m.input.CursorEnd()
			return m, textinput.Blink
		}

	case "d":
		if len(m.results) > 0 {
			m.engine.Results().RemoveTag(m.results[m.cursor].ID, m.tagCursor)
			m.engine.Editor().Invalidate()
			m.refresh()
		}

	case "C":
		m.engine.ClearResults()
		m.refresh()
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.target == inputTag {
			m.engine.Editor().Cancel()
		}
		m.closeInput()
		return m, nil

	case "enter":
		value := m.input.Value()
		target := m.target
		m.closeInput()

		switch target {
		case inputFilePath:
			if value != "" {
				m.engine.SelectFile(value)
			}
		case inputFolderPath:
			if value != "" {
				m.engine.SelectFolder(value)
			}
		case inputTag:
			m.engine.Editor().Change(value)
			m.engine.Editor().Commit()
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.target == inputTag {
		// Keep the engine-side pending value in step with the field
		m.engine.Editor().Change(m.input.Value())
	}
	return m, cmd
}

func (m *Model) openInput(target inputTarget, prompt string) {
	m.target = target
	m.input.Prompt = prompt + "> "
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.target = inputNone
	m.input.Blur()
	m.input.SetValue("")
}
