package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SteakTheStake/SummitMC/models"
)

const (
	requestTimeout       = 15 * time.Second
	statusMessageTimeout = 3 * time.Second
)

// clearStatusCmd отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// makeLoginCmd выполняет вход и проверяет права администратора по сессии.
func (m *model) makeLoginCmd(username, password string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := client.Login(ctx, username, password); err != nil {
			return apiErrorMsg{op: "Вход", err: err}
		}
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return apiErrorMsg{op: "Вход", err: err}
		}
		if !user.IsAdmin {
			return apiErrorMsg{op: "Вход", err: errNotAdmin}
		}
		return loginSuccessMsg{user: user}
	}
}

func (m *model) makeLoadVersionsCmd() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		versions, err := client.ListVersions(ctx)
		if err != nil {
			return apiErrorMsg{op: "Загрузка версий", err: err}
		}
		return versionsLoadedMsg{versions: versions}
	}
}

func (m *model) makeLoadScreenshotsCmd() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		screenshots, err := client.ListScreenshots(ctx, models.ScreenshotFilter{})
		if err != nil {
			return apiErrorMsg{op: "Загрузка галереи", err: err}
		}
		return screenshotsLoadedMsg{screenshots: screenshots}
	}
}

func (m *model) makeMarkLatestCmd(id int64) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		version, err := client.MarkLatest(ctx, id)
		if err != nil {
			return apiErrorMsg{op: "Отметка последней версии", err: err}
		}
		return versionMarkedMsg{version: version}
	}
}

func (m *model) makeSetFeaturedCmd(id int64, featured bool) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		screenshot, err := client.SetFeatured(ctx, id, featured)
		if err != nil {
			return apiErrorMsg{op: "Изменение избранного", err: err}
		}
		return featuredUpdatedMsg{screenshot: screenshot}
	}
}

func (m *model) makeDeleteCmd(target deleteTarget) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if target.kind == kindVersion {
			err = client.DeleteVersion(ctx, target.id)
		} else {
			err = client.DeleteScreenshot(ctx, target.id)
		}
		if err != nil {
			return apiErrorMsg{op: "Удаление", err: err}
		}
		return deletedMsg{kind: target.kind, id: target.id}
	}
}
