package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"nodeflow/render"
)

// visualText draws the whole diagram, not just the visible part, into a
// plain grid sized to the scene's extent.
func (m *model) visualText() ([]string, error) {
	s := m.getScene()
	if s == nil {
		return nil, errors.New("no canvas available")
	}
	extent, ok := s.Extent()
	if !ok {
		return nil, render.ErrEmptyScene
	}
	minX := int(math.Floor(extent.Min.X)) - exportPadding
	minY := int(math.Floor(extent.Min.Y)) - exportPadding
	width := int(math.Ceil(extent.Max.X)) + exportPadding - minX
	height := int(math.Ceil(extent.Max.Y)) + exportPadding - minY

	grid := render.NewGrid(width, height, minX, minY)
	s.Draw(grid)
	return grid.Lines(), nil
}

func (m *model) exportVisualTXT(filename string) error {
	lines, err := m.visualText()
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (m *model) exportPNG(filename string) error {
	s := m.getScene()
	if s == nil {
		return errors.New("no canvas available")
	}
	return render.ExportPNG(s, filename)
}

func (m *model) copyVisualText() error {
	lines, err := m.visualText()
	if err != nil {
		return err
	}
	return copyToClipboard(lines)
}

// runFileOp performs the export chosen in file input mode.
func (m *model) runFileOp(path string) error {
	switch m.fileOp {
	case FileOpSavePNG:
		return m.exportPNG(path)
	case FileOpSaveVisualTXT:
		return m.exportVisualTXT(path)
	}
	return fmt.Errorf("unknown file operation %d", m.fileOp)
}

func (m *model) fileOpPath() string {
	name := m.filename
	ext := ".png"
	if m.fileOp == FileOpSaveVisualTXT {
		ext = ".txt"
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return m.config.GetSavePath(name)
}
