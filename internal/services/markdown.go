package services

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// UGCPolicy оставляет ссылки и форматирование, но вырезает скрипты и обработчики событий.
	htmlPolicy = bluemonday.UGCPolicy()
)

// RenderChangelog преобразует markdown в безопасный HTML.
// При ошибке рендеринга возвращает пустую строку.
func RenderChangelog(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		log.Warn().Err(err).Msg("[Markdown] Не удалось преобразовать changelog")
		return ""
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}
