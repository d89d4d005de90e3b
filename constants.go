package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeFileInput
	ModeConfirm
)

// PendingOp is a two-step command waiting for the user to click its
// second component.
type PendingOp int

const (
	PendingNone PendingOp = iota
	PendingConnect
	PendingDisconnect
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteComponent ConfirmAction = iota
	ConfirmQuit
	ConfirmCloseBuffer
	ConfirmOverwriteFile
)

const (
	configFileName = ".nodeflow.toml"
	exportPadding  = 2
)
