package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// methodologyNote explains the analysis to non-statistician readers. Kept as
// Markdown so the wording can change without touching the template.
const methodologyNote = `### How to read these results

Each factor compares cavity outcomes between two groups using a
**chi-square test of independence** over the full three-way outcome
(Has Cavities / Healthy / Unknown). A P-value below 0.05 means the
difference between the groups is unlikely to be chance.

The **risk ratio** divides the cavity rate of the first group by the
rate of the second. A ratio of 2.0 means twice the cavity rate; 0.0
means the comparison group had no recorded cavities, so no ratio is
reported.

This is survey data from a single school visit. Associations here are
*not* causal claims.`

// renderMarkdown renders trusted, server-authored Markdown to HTML. It is
// never fed respondent input.
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(src), p, renderer))
}
