package main

import (
	"log/slog"

	"nodeflow/render"
	"nodeflow/scene"
)

// Buffer is one open diagram.
type Buffer struct {
	scene    *scene.Scene
	filename string
	panX     int
	panY     int

	// frame caches the last drawn grid. dirty is raised by the scene's
	// redraw notification.
	frame    *render.Grid
	frameKey frameKey
	dirty    bool
}

type frameKey struct {
	width, height int
	panX, panY    int
}

type model struct {
	width              int
	height             int
	cursorX            int
	cursorY            int
	zPanMode           bool
	buffers            []*Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	helpScroll         int
	pending            PendingOp
	pendingFrom        scene.Component
	filename           string
	fileOp             FileOperation
	confirmAction      ConfirmAction
	errorMessage       string
	successMessage     string
	config             *Config
	log                *slog.Logger
}
