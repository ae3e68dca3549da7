// Package curseforge - статический провайдер ссылок CurseForge.
// Ссылки берутся из конфигурации, сетевых запросов нет.
package curseforge

import (
	"context"
	"time"

	"github.com/SteakTheStake/SummitMC/internal/cache"
	"github.com/SteakTheStake/SummitMC/internal/providers"
	"github.com/SteakTheStake/SummitMC/models"
)

// Provider отдает заранее настроенные ссылки по разрешениям.
type Provider struct {
	links       map[string]string
	resolutions []string
	now         cache.Clock
}

// NewProvider создает провайдер. Разрешения без настроенной ссылки отдаются как nil.
func NewProvider(links map[string]string, resolutions []string) *Provider {
	copied := make(map[string]string, len(links))
	for res, u := range links {
		copied[res] = u
	}
	return &Provider{
		links:       copied,
		resolutions: resolutions,
		now:         time.Now,
	}
}

// GetResolutionDownloadLinks никогда не завершается ошибкой.
func (p *Provider) GetResolutionDownloadLinks(_ context.Context) *models.ResolutionLinks {
	links := providers.EmptyLinks(p.resolutions)
	for _, res := range p.resolutions {
		if u := p.links[res]; u != "" {
			links[res] = &u
		}
	}
	return &models.ResolutionLinks{
		Provider:  providers.CurseForge,
		Links:     links,
		UpdatedAt: p.now().UTC(),
	}
}
