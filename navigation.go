package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	dx, dy := direction(key)
	if m.zPanMode {
		if buf := m.getCurrentBuffer(); buf != nil {
			// Panning moves the view, so the world scrolls the other way.
			buf.panX -= dx * speed
			buf.panY -= dy * speed
		}
		return *m, nil
	}
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return *m, nil
}

func direction(key string) (dx, dy int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func isNavigationKey(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// canvasHeight is the number of rows left for the diagram after the buffer
// bar and status line.
func (m *model) canvasHeight() int {
	return max(m.height-1-m.barRows(), 1)
}

func (m *model) ensureCursorInBounds() {
	m.cursorX = max(m.cursorX, 0)
	m.cursorY = max(m.cursorY, 0)
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	if m.height > 0 && m.cursorY >= m.canvasHeight() {
		m.cursorY = m.canvasHeight() - 1
	}
}
