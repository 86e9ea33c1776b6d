package export

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	mdOnce     sync.Once
	mdRenderer goldmark.Markdown
	mdPolicy   *bluemonday.Policy
)

func markdownRenderer() (goldmark.Markdown, *bluemonday.Policy) {
	mdOnce.Do(func() {
		mdRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
		mdPolicy = bluemonday.UGCPolicy()
	})
	return mdRenderer, mdPolicy
}

// RenderMarkdown 将 GFM Markdown 渲染为经过清洗的 HTML 片段
func RenderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	md, policy := markdownRenderer()
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
