package tui

import (
	"github.com/SteakTheStake/SummitMC/models"
)

type loginSuccessMsg struct {
	user *models.SessionUser
}

type versionsLoadedMsg struct {
	versions []models.Version
}

type screenshotsLoadedMsg struct {
	screenshots []models.Screenshot
}

type versionMarkedMsg struct {
	version *models.Version
}

type featuredUpdatedMsg struct {
	screenshot *models.Screenshot
}

type deletedMsg struct {
	kind string
	id   int64
}

// apiErrorMsg - ошибка операции API. op описывает операцию для статуса.
type apiErrorMsg struct {
	op  string
	err error
}

type clearStatusMsg struct{}
