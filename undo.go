package main

func (m *model) undo() {
	s := m.getScene()
	if s == nil {
		return
	}
	next := s.History().Peek()
	if !s.Undo() {
		m.successMessage = "Nothing to undo"
		return
	}
	m.successMessage = "Undid " + next.Kind().String()
}

func (m *model) redo() {
	s := m.getScene()
	if s == nil {
		return
	}
	if !s.Redo() {
		m.successMessage = "Nothing to redo"
		return
	}
	m.successMessage = "Redid " + s.History().Peek().Kind().String()
}
