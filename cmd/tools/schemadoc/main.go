package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"finbro/pkg/core/schema"
	"finbro/pkg/core/utils"
)

// schemadoc renders the FinancialMetric schema as JSON, Markdown, or HTML.
// The HTML path runs the Markdown table through the renderer and anchors
// every heading so docs sites can deep-link individual sections.
func main() {
	format := flag.String("format", "markdown", "output format: json, markdown, or html")
	out := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	desc := schema.Describe()

	var rendered string
	switch *format {
	case "json":
		data, err := desc.JSON()
		if err != nil {
			log.Fatalf("Failed to encode schema as JSON: %v", err)
		}
		rendered = string(data)
	case "markdown":
		rendered = desc.Markdown()
	case "html":
		html, err := utils.RenderMarkdown(desc.Markdown())
		if err != nil {
			log.Fatalf("Failed to render schema markdown: %v", err)
		}
		anchored, err := utils.AnchorHeadings(html)
		if err != nil {
			log.Fatalf("Failed to anchor headings: %v", err)
		}
		rendered = anchored
	default:
		log.Fatalf("Unknown format %q (want json, markdown, or html)", *format)
	}

	if *out == "" {
		fmt.Println(rendered)
		return
	}
	if err := os.WriteFile(*out, []byte(rendered+"\n"), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %s schema documentation to %s (%d bytes)\n", *format, *out, len(rendered))
}
