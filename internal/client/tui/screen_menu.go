package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) updateMenuScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyEsc:
			return m, tea.Quit
		case keyEnter:
			item, isMenu := m.menu.SelectedItem().(menuItem)
			if !isMenu {
				return m, nil
			}
			return m.openScreen(item.target)
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// openScreen переключает экран и запускает загрузку его данных.
func (m *model) openScreen(target screenState) (tea.Model, tea.Cmd) {
	m.state = target
	m.err = nil
	switch target {
	case versionListScreen:
		m.status = "Загрузка версий..."
		return m, m.makeLoadVersionsCmd()
	case screenshotListScreen:
		m.status = "Загрузка галереи..."
		return m, m.makeLoadScreenshotsCmd()
	default:
		return m, nil
	}
}
