package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nodeflow/scene"
	"nodeflow/shapes"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Printf("using default config: %v", err)
	}
	logger, logFile, err := config.newLogger()
	if err != nil {
		log.Printf("logging disabled: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	p := tea.NewProgram(
		initialModel(config, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, logger *slog.Logger) model {
	m := model{
		config: config,
		log:    logger,
		mode:   ModeNormal,
	}
	m.addNewBuffer(m.newScene(), "")
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

// handleMouse forwards the left button to the scene. Presses while a
// connect or disconnect command is pending pick its second component
// instead.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	s := m.getScene()
	if s == nil || m.mode != ModeNormal || m.help {
		return m, nil
	}
	if msg.Y < m.barRows() {
		return m, nil
	}
	m.cursorX, m.cursorY = msg.X, msg.Y-m.barRows()
	m.ensureCursorInBounds()
	pt := m.worldPoint(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseLeft:
		if s.Mode() != scene.Idle {
			// A press we never saw released; treat it as the release.
			s.HandleMouseUp(pt)
		}
		m.clearMessages()
		if m.pending != PendingNone {
			m.finishPending(s.ComponentAt(pt))
			return m, nil
		}
		s.HandleMouseDown(pt)
	case tea.MouseMotion:
		s.HandleMouseMove(pt)
	case tea.MouseRelease:
		s.HandleMouseUp(pt)
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if isNavigationKey(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}
	s := m.getScene()
	m.clearMessages()

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations && s.History().CanUndo() {
			m.confirm(ConfirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "esc":
		m.resetPending()
	case "z":
		m.zPanMode = !m.zPanMode
	case "b":
		m.addComponent(shapes.NewBox(0, 0, m.nextLabel("Step"), 1, 1))
	case "d":
		m.addComponent(shapes.NewDecision(0, 0, m.nextLabel("If"), 2))
	case "t":
		m.addComponent(shapes.NewTerminator(0, 0, m.nextLabel("End"), 1, 1))
	case "x", "delete":
		if s.Selected() == nil {
			m.errorMessage = "No component selected"
			return m, nil
		}
		if m.config.Confirmations {
			m.confirm(ConfirmDeleteComponent)
			return m, nil
		}
		s.RemoveComponent(s.Selected())
	case "c":
		m.startPending(PendingConnect)
	case "X":
		m.startPending(PendingDisconnect)
	case "+":
		m.growPorts(scene.In)
	case ">":
		m.growPorts(scene.Out)
	case "u":
		m.undo()
	case "U":
		m.redo()
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "y":
		if err := m.copyVisualText(); err != nil {
			m.fail("copy failed", err)
			return m, nil
		}
		m.successMessage = "Copied diagram to clipboard"
	case "N":
		m.addNewBuffer(m.newScene(), "")
		m.resetPending()
	case "{":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex - 1 + len(m.buffers)) % len(m.buffers)
			m.resetPending()
		}
	case "}":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex + 1) % len(m.buffers)
			m.resetPending()
		}
	case "W":
		if m.config.Confirmations && s.History().CanUndo() {
			m.confirm(ConfirmCloseBuffer)
			return m, nil
		}
		m.closeCurrentBuffer()
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.help = false
	case "j", "down":
		m.helpScroll++
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
	case tea.KeyEnter:
		if m.filename == "" {
			m.errorMessage = "Filename cannot be empty"
			return m, nil
		}
		path := m.fileOpPath()
		if _, err := os.Stat(path); err == nil && m.config.Confirmations {
			m.confirm(ConfirmOverwriteFile)
			return m, nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.fail("cannot check file", err)
			return m, nil
		}
		m.completeFileOp(path)
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			m.filename = m.filename[:len(m.filename)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteComponent:
			if s := m.getScene(); s.Selected() != nil {
				s.RemoveComponent(s.Selected())
			}
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmCloseBuffer:
			m.closeCurrentBuffer()
		case ConfirmOverwriteFile:
			m.completeFileOp(m.fileOpPath())
		}
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			return m, nil
		}
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) addComponent(c interface {
	scene.Component
	SetPortRadius(float64)
}) {
	c.SetPortRadius(m.config.PortRadius)
	c.Move(m.cursorPoint())
	m.getScene().AddComponent(c)
}

func (m *model) nextLabel(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, len(m.getScene().Components())+1)
}

// portResizer is implemented by every shape through scene.Node.
type portResizer interface {
	InConnectionPoints() []*scene.ConnectionPoint
	OutConnectionPoints() []*scene.ConnectionPoint
	SetInputCount(int) bool
	SetOutputCount(int) bool
}

// growPorts adds one port to the selected component. Growing never touches
// a linked port, so recorded history stays valid.
func (m *model) growPorts(dir scene.Direction) {
	sel := m.getScene().Selected()
	r, ok := sel.(portResizer)
	if !ok {
		m.errorMessage = "No component selected"
		return
	}
	if dir == scene.In {
		r.SetInputCount(len(r.InConnectionPoints()) + 1)
	} else {
		r.SetOutputCount(len(r.OutConnectionPoints()) + 1)
	}
	m.getCurrentBuffer().dirty = true
	m.successMessage = fmt.Sprintf("Added %s port", dir)
}

func (m *model) startPending(op PendingOp) {
	sel := m.getScene().Selected()
	if sel == nil {
		m.errorMessage = "Select a component first"
		return
	}
	m.pending = op
	m.pendingFrom = sel
}

func (m *model) finishPending(target scene.Component) {
	s := m.getScene()
	op, from := m.pending, m.pendingFrom
	m.resetPending()
	if target == nil {
		m.errorMessage = "No component there"
		return
	}
	switch op {
	case PendingConnect:
		if s.ConnectComponents(from, target) == nil {
			m.errorMessage = "Cannot connect those components"
			return
		}
		m.successMessage = "Connected"
	case PendingDisconnect:
		if !s.DisconnectComponents(from, target) {
			m.errorMessage = "Those components are not connected"
			return
		}
		m.successMessage = "Disconnected"
	}
}

func (m *model) resetPending() {
	m.pending = PendingNone
	m.pendingFrom = nil
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	if buf := m.getCurrentBuffer(); buf != nil && buf.filename != "" {
		m.filename = buf.filename
	}
}

func (m *model) completeFileOp(path string) {
	if err := m.runFileOp(path); err != nil {
		m.mode = ModeFileInput
		m.fail("export failed", err)
		return
	}
	m.mode = ModeNormal
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.filename = strings.TrimSuffix(strings.TrimSuffix(m.filename, ".png"), ".txt")
	}
	m.log.Info("exported", "file", path)
	m.successMessage = "Saved " + path
}

func (m *model) confirm(action ConfirmAction) {
	m.mode = ModeConfirm
	m.confirmAction = action
}

func (m *model) fail(what string, err error) {
	m.log.Error(what, "err", err)
	m.errorMessage = err.Error()
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	buf := m.getCurrentBuffer()
	if buf == nil {
		return ""
	}

	renderWidth := max(m.width, 1)
	renderHeight := m.canvasHeight()

	var result strings.Builder
	if m.barRows() > 0 {
		result.WriteString(m.renderBufferBar(renderWidth))
		result.WriteString("\n")
	}
	cursorX, cursorY := m.cursorX, m.cursorY
	if m.mode == ModeFileInput {
		cursorX, cursorY = -1, -1
	}
	result.WriteString(buf.frameFor(renderWidth, renderHeight).Render(cursorX, cursorY))
	result.WriteString("\n")
	result.WriteString(m.statusLine(renderWidth))
	return result.String()
}

func (m model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString(barStyle.Render("Open Charts: "))
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(barStyle.Render(" | "))
		}
		name := buf.filename
		if name == "" {
			name = fmt.Sprintf("Buffer %d", i+1)
		}
		if i == m.currentBufferIndex {
			bar.WriteString(activeStyle.Render("[" + name + "]"))
		} else {
			bar.WriteString(barStyle.Render(name))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(bar.String())
}

func (m model) statusLine(width int) string {
	s := m.getScene()
	var status string
	switch m.mode {
	case ModeFileInput:
		op := "Export PNG"
		if m.fileOp == FileOpSaveVisualTXT {
			op = "Export TXT"
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		status = "Mode: CONFIRM | " + m.confirmMessage()
	default:
		undo, redo := s.History().Len()
		status = fmt.Sprintf("Mode: %s | Cursor: (%d,%d) | Undo: %d Redo: %d",
			m.modeString(), m.cursorX, m.cursorY, undo, redo)
		if undo > 0 {
			status += " [+]"
		}
		switch m.pending {
		case PendingConnect:
			status += " | Click the component to connect to"
		case PendingDisconnect:
			status += " | Click the component to disconnect from"
		}
		if sel := s.Selected(); sel != nil {
			status += " | Selected: " + sel.ID().String()[:8]
		}
		if m.successMessage != "" {
			status += " | " + m.successMessage
		} else if m.errorMessage == "" {
			status += " | ? for help | q to quit"
		}
	}
	line := statusStyle.MaxWidth(width).Render(status)
	if m.errorMessage != "" {
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return line
}

func (m model) modeString() string {
	if m.zPanMode {
		return "PAN"
	}
	if m.pending != PendingNone {
		return "PICK"
	}
	return strings.ToUpper(m.getScene().Mode().String())
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDeleteComponent:
		return "Delete this component and its lines? (y/n)"
	case ConfirmQuit:
		return "Quit nodeflow? Unsaved changes will be lost. (y/n)"
	case ConfirmCloseBuffer:
		return "Close current buffer? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.fileOpPath())
	}
	return ""
}

func (m model) helpView() string {
	helpLines := []string{
		titleStyle.Render("nodeflow help"),
		"",
		"Mouse:",
		"------",
		"  Drag a component     Move it",
		"  Drag from a port     Draw a line; release over a free port to connect",
		"  Drag a linked port   Re-attach that end of its line",
		"  Click                Select the component under the pointer",
		"",
		"Components:",
		"-----------",
		"  b                    New box at cursor",
		"  d                    New decision at cursor",
		"  t                    New terminator at cursor",
		"  x/Delete             Delete selected component and its lines",
		"  +                    Add an input port to the selected component",
		"  >                    Add an output port to the selected component",
		"",
		"Connections:",
		"------------",
		"  c then click         Connect selected component to the clicked one",
		"  X then click         Disconnect selected component from the clicked one",
		"",
		"Navigation:",
		"-----------",
		"  h/j/k/l, arrows      Move cursor (Shift for 2x)",
		"  z                    Toggle pan mode",
		"",
		"Files and buffers:",
		"------------------",
		"  S                    Export PNG",
		"  T                    Export visual text",
		"  y                    Copy visual text to clipboard",
		"  N                    New chart in new buffer",
		"  { / }                Previous / next buffer",
		"  W                    Close current buffer",
		"",
		"General:",
		"--------",
		"  u                    Undo",
		"  U                    Redo",
		"  Esc                  Cancel pending command",
		"  ?                    Toggle this help screen",
		"  q/Ctrl+C             Quit",
	}

	visibleHeight := max(m.height-1, 1)
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
