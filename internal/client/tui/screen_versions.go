package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SteakTheStake/SummitMC/models"
)

func (m *model) updateVersionListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.versionList.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case keyBack, keyEsc:
			m.state = menuScreen
			return m, nil
		case keyRefresh:
			return m.openScreen(versionListScreen)
		case keyLatest:
			item, selected := m.versionList.SelectedItem().(versionItem)
			if !selected || item.version.IsLatest {
				return m, nil
			}
			if m.readOnlyMode {
				return m.setStatusMessage(readOnlyStatus)
			}
			m.status = "Отмечаем версию " + item.version.Version + "..."
			return m, m.makeMarkLatestCmd(item.version.ID)
		case keyDelete:
			item, selected := m.versionList.SelectedItem().(versionItem)
			if !selected {
				return m, nil
			}
			return m.confirmDelete(deleteTarget{
				kind:     kindVersion,
				id:       item.version.ID,
				title:    item.Title(),
				returnTo: versionListScreen,
			})
		}
	}

	var cmd tea.Cmd
	m.versionList, cmd = m.versionList.Update(msg)
	return m, cmd
}

func (m *model) setVersions(versions []models.Version) tea.Cmd {
	items := make([]list.Item, 0, len(versions))
	for _, v := range versions {
		items = append(items, versionItem{version: v})
	}
	return m.versionList.SetItems(items)
}

// handleVersionMarked снимает отметку со всех версий кроме отмеченной.
func (m *model) handleVersionMarked(msg versionMarkedMsg) (tea.Model, tea.Cmd) {
	items := m.versionList.Items()
	updated := make([]list.Item, 0, len(items))
	for _, it := range items {
		vi, ok := it.(versionItem)
		if !ok {
			continue
		}
		vi.version.IsLatest = vi.version.ID == msg.version.ID
		updated = append(updated, vi)
	}
	setCmd := m.versionList.SetItems(updated)
	_, statusCmd := m.setStatusMessage("Последняя версия: " + msg.version.Version)
	return m, tea.Batch(setCmd, statusCmd)
}
