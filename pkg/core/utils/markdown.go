package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderMarkdown converts Markdown (GFM tables included) to HTML.
func RenderMarkdown(md string) (string, error) {
	engine := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := engine.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return buf.String(), nil
}

// AnchorHeadings adds stable id attributes to h1-h3 elements so generated
// documentation is deep-linkable. Existing ids are left alone.
func AnchorHeadings(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("html parse failed: %w", err)
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if _, exists := s.Attr("id"); exists {
			return
		}
		if slug := slugify(s.Text()); slug != "" {
			s.SetAttr("id", slug)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("html serialize failed: %w", err)
	}
	return out, nil
}

// slugify lowercases and maps runs of non-alphanumerics to single dashes.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
