package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SteakTheStake/SummitMC/models"
)

func (m *model) updateScreenshotListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.screenshotList.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case keyBack, keyEsc:
			m.state = menuScreen
			return m, nil
		case keyRefresh:
			return m.openScreen(screenshotListScreen)
		case keyFeatured:
			item, selected := m.screenshotList.SelectedItem().(screenshotItem)
			if !selected {
				return m, nil
			}
			if m.readOnlyMode {
				return m.setStatusMessage(readOnlyStatus)
			}
			return m, m.makeSetFeaturedCmd(item.screenshot.ID, !item.screenshot.Featured)
		case keyDelete:
			item, selected := m.screenshotList.SelectedItem().(screenshotItem)
			if !selected {
				return m, nil
			}
			return m.confirmDelete(deleteTarget{
				kind:     kindScreenshot,
				id:       item.screenshot.ID,
				title:    item.screenshot.Title,
				returnTo: screenshotListScreen,
			})
		}
	}

	var cmd tea.Cmd
	m.screenshotList, cmd = m.screenshotList.Update(msg)
	return m, cmd
}

func (m *model) setScreenshots(screenshots []models.Screenshot) tea.Cmd {
	items := make([]list.Item, 0, len(screenshots))
	for _, s := range screenshots {
		items = append(items, screenshotItem{screenshot: s})
	}
	return m.screenshotList.SetItems(items)
}

func (m *model) handleFeaturedUpdated(msg featuredUpdatedMsg) (tea.Model, tea.Cmd) {
	var setCmd tea.Cmd
	for i, it := range m.screenshotList.Items() {
		si, ok := it.(screenshotItem)
		if ok && si.screenshot.ID == msg.screenshot.ID {
			si.screenshot.Featured = msg.screenshot.Featured
			setCmd = m.screenshotList.SetItem(i, si)
			break
		}
	}
	text := "Снято с избранного"
	if msg.screenshot.Featured {
		text = "Добавлено в избранное"
	}
	_, statusCmd := m.setStatusMessage(text)
	return m, tea.Batch(setCmd, statusCmd)
}
