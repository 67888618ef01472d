package utils

import (
	"strings"
	"testing"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

func TestRenderMarkdown_DataDictionaryTable(t *testing.T) {
	md := strings.Join([]string{
		"# FinancialMetric",
		"",
		"## Fields",
		"",
		"| Field | Type | Required |",
		"|---|---|---|",
		"| `ticker` | string | yes |",
		"| `revenue` | decimal | no |",
	}, "\n")

	html, err := RenderMarkdown(md)
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"<h1>FinancialMetric</h1>",
		"<table>",
		"<th>Field</th>",
		"<td><code>ticker</code></td>",
		"<td>decimal</td>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q:\n%s", want, html)
		}
	}
}

// =============================================================================
// HEADING ANCHORS
// =============================================================================

func TestAnchorHeadings(t *testing.T) {
	html := `<h1>Financial Metric</h1><p>intro</p><h2>Fields</h2><h3 id="keep">Custom</h3>`

	anchored, err := AnchorHeadings(html)
	if err != nil {
		t.Fatalf("AnchorHeadings failed: %v", err)
	}

	for _, want := range []string{
		`<h1 id="financial-metric">Financial Metric</h1>`,
		`<h2 id="fields">Fields</h2>`,
		`<h3 id="keep">Custom</h3>`, // existing anchors stay put
	} {
		if !strings.Contains(anchored, want) {
			t.Errorf("anchored HTML missing %q:\n%s", want, anchored)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fields", "fields"},
		{"Financial Metric", "financial-metric"},
		{"Cash & Equivalents (2024)", "cash-equivalents-2024"},
		{"  padded   heading  ", "padded-heading"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// The full documentation path: markdown table in, linkable HTML out.
func TestRenderThenAnchor(t *testing.T) {
	html, err := RenderMarkdown("## Validation Rules\n\ntext\n")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	anchored, err := AnchorHeadings(html)
	if err != nil {
		t.Fatalf("AnchorHeadings failed: %v", err)
	}
	if !strings.Contains(anchored, `<h2 id="validation-rules">Validation Rules</h2>`) {
		t.Errorf("pipeline output missing anchored heading:\n%s", anchored)
	}
}
