package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"

	"github.com/SteakTheStake/SummitMC/internal/client/api"
	"github.com/SteakTheStake/SummitMC/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	loginScreen          screenState = iota // Экран входа
	menuScreen                              // Главное меню
	versionListScreen                       // Список версий
	screenshotListScreen                    // Галерея
	confirmDeleteScreen                     // Подтверждение удаления
)

func (s screenState) String() string {
	switch s {
	case loginScreen:
		return "login"
	case menuScreen:
		return "menu"
	case versionListScreen:
		return "versions"
	case screenshotListScreen:
		return "screenshots"
	case confirmDeleteScreen:
		return "confirm-delete"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Константы для TUI.
const (
	defaultListWidth  = 80
	defaultListHeight = 24
	inputWidthOffset  = 4
	numLoginFields    = 2

	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keyBack     = "b"
	keyQuit     = "q"
	keyRefresh  = "r"
	keyDelete   = "d"
	keyLatest   = "l"
	keyFeatured = "f"
	keyYes      = "y"
	keyNo       = "n"
)

// versionItem - элемент списка версий.
type versionItem struct {
	version models.Version
}

func (i versionItem) Title() string {
	title := fmt.Sprintf("%s (%s)", i.version.Version, i.version.Resolution)
	if i.version.IsLatest {
		title += " ★ latest"
	}
	return title
}

func (i versionItem) Description() string {
	return fmt.Sprintf("#%d | %s | %s", i.version.ID,
		i.version.ReleaseDate.Format("2006-01-02"), i.version.DownloadURL)
}

func (i versionItem) FilterValue() string { return i.version.Version + " " + i.version.Resolution }

// screenshotItem - элемент галереи.
type screenshotItem struct {
	screenshot models.Screenshot
}

func (i screenshotItem) Title() string {
	title := i.screenshot.Title
	if i.screenshot.Featured {
		title += " ★"
	}
	return title
}

func (i screenshotItem) Description() string {
	return fmt.Sprintf("#%d | %s | %s | %s", i.screenshot.ID,
		i.screenshot.Category, i.screenshot.Resolution, i.screenshot.ImageURL)
}

func (i screenshotItem) FilterValue() string {
	return i.screenshot.Title + " " + i.screenshot.Category
}

// menuItem - пункт главного меню.
type menuItem struct {
	title  string
	desc   string
	target screenState
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// deleteTarget - запись, ожидающая подтверждения удаления.
type deleteTarget struct {
	kind     string // "version" или "screenshot"
	id       int64
	title    string
	returnTo screenState
}

const (
	kindVersion    = "version"
	kindScreenshot = "screenshot"
)

// model представляет состояние TUI приложения.
type model struct {
	state     screenState
	apiClient api.Client
	serverURL string
	user      *models.SessionUser

	fileLock     *flock.Flock
	lockAcquired bool
	readOnlyMode bool // консоль уже открыта в другом окне

	usernameInput textinput.Model
	passwordInput textinput.Model
	focusedField  int
	loggingIn     bool

	menu           list.Model
	versionList    list.Model
	screenshotList list.Model

	pendingDelete *deleteTarget
	status        string
	err           error
	debugMode     bool
	docStyle      lipgloss.Style
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// initModel создает начальную модель.
func initModel(serverURL string, apiClient api.Client, debugMode bool) model {
	username := textinput.New()
	username.Placeholder = "Имя пользователя"
	username.CharLimit = 64
	username.Width = defaultListWidth - inputWidthOffset
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Пароль"
	password.CharLimit = 128
	password.Width = defaultListWidth - inputWidthOffset
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	menu := list.New([]list.Item{
		menuItem{title: "Версии", desc: "Список версий, отметка последней, удаление", target: versionListScreen},
		menuItem{title: "Галерея", desc: "Скриншоты, избранное, удаление", target: screenshotListScreen},
	}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	menu.Title = "Summit: консоль администратора"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	versions := list.New([]list.Item{}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	versions.Title = "Версии"

	screenshots := list.New([]list.Item{}, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	screenshots.Title = "Галерея"

	return model{
		state:          loginScreen,
		apiClient:      apiClient,
		serverURL:      serverURL,
		usernameInput:  username,
		passwordInput:  password,
		menu:           menu,
		versionList:    versions,
		screenshotList: screenshots,
		debugMode:      debugMode,
		docStyle:       lipgloss.NewStyle().Margin(1, 2),
	}
}
