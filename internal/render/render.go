// Package render turns model output into HTML that is safe to embed in a page.
package render

import (
	"bytes"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Policy converts markdown to HTML and strips anything not allowed in
// user-generated content.
type Policy struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewPolicy creates a Policy for rendering plans.
func NewPolicy() *Policy {
	return &Policy{
		policy:   bluemonday.UGCPolicy(),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Markdown renders text as sanitized HTML. If conversion fails the text is
// shown escaped inside a pre block.
func (p *Policy) Markdown(text string) template.HTML {
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<pre>" + html.EscapeString(text) + "</pre>") //nolint:gosec // escaped above
	}

	return template.HTML(p.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}
