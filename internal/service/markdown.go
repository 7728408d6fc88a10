package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	articleSanitizer = bluemonday.UGCPolicy()
	// comments are stored as plain text
	commentSanitizer = bluemonday.StrictPolicy()
)

// renderMarkdown converts article markdown into sanitized HTML
func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(articleSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// sanitizeComment strips all markup from user-submitted text
func sanitizeComment(s string) string {
	return strings.TrimSpace(commentSanitizer.Sanitize(s))
}
