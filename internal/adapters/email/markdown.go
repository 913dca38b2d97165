package email

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// renderer escapes raw HTML in markdown input (WithUnsafe is not set).
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts an admin-authored message body to an HTML email body.
// On a conversion failure the escaped source is returned as a paragraph.
func RenderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "<p>" + template.HTMLEscapeString(md) + "</p>"
	}
	return buf.String()
}

// Message builds a single-recipient request with a markdown body.
func Message(to, subject, markdown string) SendRequest {
	return SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    RenderMarkdown(markdown),
	}
}
