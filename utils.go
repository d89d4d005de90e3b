package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"nodeflow/render"
	"nodeflow/scene"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return m.buffers[m.currentBufferIndex]
}

func (m *model) getScene() *scene.Scene {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.scene
	}
	return nil
}

func (m *model) getPanOffset() (int, int) {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.panX, buf.panY
	}
	return 0, 0
}

// barRows is how many screen rows sit above the canvas.
func (m *model) barRows() int {
	if len(m.buffers) > 1 {
		return 1
	}
	return 0
}

// worldPoint converts a screen cell to scene coordinates.
func (m *model) worldPoint(screenX, screenY int) scene.Point {
	panX, panY := m.getPanOffset()
	return scene.Pt(float64(screenX+panX), float64(screenY-m.barRows()+panY))
}

func (m *model) cursorPoint() scene.Point {
	return m.worldPoint(m.cursorX, m.cursorY+m.barRows())
}

func (m *model) newScene() *scene.Scene {
	return scene.New(
		scene.WithLogger(m.log),
		scene.WithHistoryLimit(m.config.HistoryLimit),
	)
}

func (m *model) addNewBuffer(s *scene.Scene, filename string) {
	buf := &Buffer{scene: s, filename: filename, dirty: true}
	s.OnRedraw(func() { buf.dirty = true })
	m.buffers = append(m.buffers, buf)
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) closeCurrentBuffer() {
	if len(m.buffers) <= 1 {
		m.buffers = nil
		m.addNewBuffer(m.newScene(), "")
		return
	}
	m.buffers[m.currentBufferIndex].scene.OnRedraw(nil)
	m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
	if m.currentBufferIndex >= len(m.buffers) {
		m.currentBufferIndex = len(m.buffers) - 1
	}
	m.resetPending()
}

// frame returns the drawn grid for the visible area, redrawing only when the
// scene asked for it or the viewport changed.
func (buf *Buffer) frameFor(width, height int) *render.Grid {
	key := frameKey{width: width, height: height, panX: buf.panX, panY: buf.panY}
	if buf.frame == nil || buf.dirty || buf.frameKey != key {
		grid := render.NewGrid(width, height, buf.panX, buf.panY)
		buf.scene.Draw(grid)
		buf.frame = grid
		buf.frameKey = key
		buf.dirty = false
	}
	return buf.frame
}

func copyToClipboard(lines []string) error {
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
