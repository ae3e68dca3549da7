package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const readOnlyStatus = "Консоль открыта в другом окне: изменения недоступны"

func (m *model) confirmDelete(target deleteTarget) (tea.Model, tea.Cmd) {
	if m.readOnlyMode {
		return m.setStatusMessage(readOnlyStatus)
	}
	m.pendingDelete = &target
	m.state = confirmDeleteScreen
	return m, nil
}

func (m *model) updateConfirmDeleteScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.pendingDelete == nil {
		return m, nil
	}

	target := *m.pendingDelete
	switch keyMsg.String() {
	case keyYes:
		m.pendingDelete = nil
		m.state = target.returnTo
		m.status = "Удаление..."
		return m, m.makeDeleteCmd(target)
	case keyNo, keyEsc, keyBack:
		m.pendingDelete = nil
		m.state = target.returnTo
		return m, nil
	}
	return m, nil
}

// handleDeleted убирает удаленную запись из списка.
func (m *model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	target := &m.screenshotList
	if msg.kind == kindVersion {
		target = &m.versionList
	}

	for i, it := range target.Items() {
		if itemID(it) == msg.id {
			target.RemoveItem(i)
			break
		}
	}
	return m.setStatusMessage("Запись удалена")
}

func itemID(it list.Item) int64 {
	switch v := it.(type) {
	case versionItem:
		return v.version.ID
	case screenshotItem:
		return v.screenshot.ID
	default:
		return 0
	}
}

func (m *model) viewConfirmDeleteScreen() string {
	if m.pendingDelete == nil {
		return ""
	}
	kind := "скриншот"
	if m.pendingDelete.kind == kindVersion {
		kind = "версию"
	}
	return fmt.Sprintf("%s\n\nУдалить %s «%s» (#%d)? [y/n]",
		titleStyle.Render("Подтверждение удаления"), kind, m.pendingDelete.title, m.pendingDelete.id)
}
