// Package providers содержит общие части адаптеров внешней статистики:
// имена провайдеров и сопоставление файлов с метками разрешения.
package providers

import (
	"regexp"
	"strings"
	"sync"

	"github.com/SteakTheStake/SummitMC/models"
)

// Имена провайдеров.
const (
	Modrinth   = "modrinth"
	CurseForge = "curseforge"
)

var (
	markerMu    sync.RWMutex
	markerCache = make(map[string]*regexp.Regexp)
)

// markerPattern возвращает регулярное выражение маркера разрешения:
// для "64x" это "64x" или "x64", не окруженные цифрами.
func markerPattern(resolution string) *regexp.Regexp {
	markerMu.RLock()
	re, ok := markerCache[resolution]
	markerMu.RUnlock()
	if ok {
		return re
	}

	size := regexp.QuoteMeta(strings.TrimSuffix(strings.ToLower(resolution), "x"))
	re = regexp.MustCompile(`(?i)(^|[^0-9])(` + size + `x|x` + size + `)([^0-9]|$)`)

	markerMu.Lock()
	markerCache[resolution] = re
	markerMu.Unlock()
	return re
}

// HasResolutionMarker сообщает, содержит ли имя файла или версии маркер разрешения.
func HasResolutionMarker(name, resolution string) bool {
	if name == "" || resolution == "" {
		return false
	}
	return markerPattern(resolution).MatchString(name)
}

// EmptyLinks возвращает карту, где для каждого разрешения ссылка отсутствует.
func EmptyLinks(resolutions []string) models.LinkMap {
	links := make(models.LinkMap, len(resolutions))
	for _, res := range resolutions {
		links[res] = nil
	}
	return links
}
