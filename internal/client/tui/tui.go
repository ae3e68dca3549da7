// Package tui - терминальная консоль администратора сайта Summit.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/SteakTheStake/SummitMC/internal/client/api"
)

const helpStatusHeightOffset = 3

var helpTextMap = map[screenState]string{
	loginScreen:          "tab: следующее поле • enter: войти • esc: выход",
	menuScreen:           "enter: открыть • q: выход",
	versionListScreen:    "l: сделать последней • d: удалить • r: обновить • /: поиск • b: назад",
	screenshotListScreen: "f: избранное • d: удалить • r: обновить • /: поиск • b: назад",
	confirmDeleteScreen:  "y: удалить • n: отмена",
}

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// setStatusMessage показывает статус и очищает его через statusMessageTimeout.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.status = status
	return m, clearStatusCmd(statusMessageTimeout)
}

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := m.docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - helpStatusHeightOffset
		m.menu.SetSize(width, height)
		m.versionList.SetSize(width, height)
		m.screenshotList.SetSize(width, height)
		m.usernameInput.Width = width - inputWidthOffset
		m.passwordInput.Width = width - inputWidthOffset
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case loginSuccessMsg:
		return m.handleLoginSuccess(msg)

	case versionsLoadedMsg:
		m.status = ""
		return m, m.setVersions(msg.versions)

	case screenshotsLoadedMsg:
		m.status = ""
		return m, m.setScreenshots(msg.screenshots)

	case versionMarkedMsg:
		return m.handleVersionMarked(msg)

	case featuredUpdatedMsg:
		return m.handleFeaturedUpdated(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case apiErrorMsg:
		return m.handleAPIError(msg)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	switch m.state {
	case loginScreen:
		return m.updateLoginScreen(msg)
	case menuScreen:
		return m.updateMenuScreen(msg)
	case versionListScreen:
		return m.updateVersionListScreen(msg)
	case screenshotListScreen:
		return m.updateScreenshotListScreen(msg)
	case confirmDeleteScreen:
		return m.updateConfirmDeleteScreen(msg)
	default:
		return m, nil
	}
}

// handleAPIError показывает ошибку. Истекшая сессия возвращает на экран входа.
func (m *model) handleAPIError(msg apiErrorMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	m.status = ""
	m.err = fmt.Errorf("%s: %w", msg.op, msg.err)
	log.Warn().Err(msg.err).Msgf("[TUI] %s", msg.op)

	if m.state != loginScreen && errors.Is(msg.err, api.ErrAuthorization) {
		m.user = nil
		m.apiClient.SetAuthToken("")
		m.state = loginScreen
		return m, updateLoginInputFocus(m, 0)
	}
	return m, nil
}

func (m *model) getMainContentView() string {
	switch m.state {
	case loginScreen:
		return m.viewLoginScreen()
	case menuScreen:
		return m.menu.View()
	case versionListScreen:
		return m.versionList.View()
	case screenshotListScreen:
		return m.screenshotList.View()
	case confirmDeleteScreen:
		return m.viewConfirmDeleteScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	var footer strings.Builder
	if m.status != "" {
		footer.WriteString("\n")
		footer.WriteString(statusStyle.Render(m.status))
	}
	if m.readOnlyMode {
		footer.WriteString("\n")
		footer.WriteString(statusStyle.Render("[только просмотр]"))
	}
	if m.err != nil {
		footer.WriteString("\n")
		footer.WriteString(errorStyle.Render("Ошибка: " + m.err.Error()))
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(fmt.Sprintf(" [State: %s]\n [URL: %s]\n [Lock: %t]\n",
			m.state, m.serverURL, m.lockAcquired))
		if m.user != nil {
			footer.WriteString(fmt.Sprintf(" [User: %s admin=%t]\n", m.user.Username, m.user.IsAdmin))
		}
	}

	return fmt.Sprintf("%s\n%s%s",
		m.docStyle.Render(m.getMainContentView()),
		helpStyle.Render(helpTextMap[m.state]),
		footer.String())
}

// Start запускает консоль. lockPath защищает от одновременного изменения
// данных из нескольких окон: второй экземпляр работает только на просмотр.
func Start(serverURL, lockPath string, debugMode bool) error {
	if serverURL == "" {
		return errors.New("не указан URL сервера")
	}
	m := initModel(serverURL, api.NewHTTPClient(serverURL), debugMode)

	m.fileLock = flock.New(lockPath)
	locked, err := m.fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("ошибка блокировки файла %s: %w", lockPath, err)
	}
	m.lockAcquired = locked
	if locked {
		log.Info().Msgf("[TUI] Блокировка %s получена", lockPath)
		defer func() {
			if errUnlock := m.fileLock.Unlock(); errUnlock != nil {
				log.Error().Err(errUnlock).Msgf("[TUI] Ошибка снятия блокировки %s", lockPath)
			}
		}()
	} else {
		m.readOnlyMode = true
		log.Warn().Msgf("[TUI] Блокировка %s занята, режим только для просмотра", lockPath)
	}

	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
