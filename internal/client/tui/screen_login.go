package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var errNotAdmin = errors.New("учетная запись не имеет прав администратора")

// updateLoginInputFocus переводит фокус на поле с индексом field.
func updateLoginInputFocus(m *model, field int) tea.Cmd {
	m.focusedField = field
	if field == 0 {
		m.passwordInput.Blur()
		return m.usernameInput.Focus()
	}
	m.usernameInput.Blur()
	return m.passwordInput.Focus()
}

func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyEsc:
		return m, tea.Quit
	case keyTab, keyDown:
		return m, updateLoginInputFocus(m, (m.focusedField+1)%numLoginFields)
	case keyShiftTab, keyUp:
		return m, updateLoginInputFocus(m, (m.focusedField+numLoginFields-1)%numLoginFields)
	case keyEnter:
		if m.focusedField == 0 {
			return m, updateLoginInputFocus(m, 1)
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	if m.focusedField == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *model) submitLogin() (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	username := strings.TrimSpace(m.usernameInput.Value())
	password := m.passwordInput.Value()
	if username == "" || password == "" {
		m.err = errors.New("введите имя пользователя и пароль")
		return m, nil
	}
	m.err = nil
	m.loggingIn = true
	m.status = "Вход..."
	return m, m.makeLoginCmd(username, password)
}

func (m *model) handleLoginSuccess(msg loginSuccessMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	m.user = msg.user
	m.err = nil
	m.passwordInput.SetValue("")
	m.state = menuScreen
	return m.setStatusMessage("Выполнен вход: " + msg.user.Username)
}

func (m *model) viewLoginScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Вход в консоль Summit"))
	b.WriteString("\n\nСервер: ")
	b.WriteString(m.serverURL)
	b.WriteString("\n\n")
	b.WriteString(m.usernameInput.View())
	b.WriteString("\n")
	b.WriteString(m.passwordInput.View())
	b.WriteString("\n")
	return b.String()
}
