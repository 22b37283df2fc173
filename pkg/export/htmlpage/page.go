package htmlpage

import (
	"strings"

	"github.com/telco-tools/cdr-uplink/pkg/services/report"
)

// Page is a report.View implementation that assembles a complete standalone
// HTML document: the artifact written by `upload cdr --html` and served by
// the web viewer. Row markup arrives pre-escaped from the renderer and is
// inserted verbatim.
type Page struct {
	summary string
	totals  section
	calls   section
}

type section struct {
	rows    []string
	visible bool
}

func New() *Page {
	return &Page{}
}

// View exposes the page regions for a report.Renderer.
func (p *Page) View() report.View {
	return report.View{
		Summary: summaryRegion{p},
		Totals:  sectionRegion{&p.totals},
		Calls:   sectionRegion{&p.calls},
	}
}

type summaryRegion struct{ p *Page }

func (r summaryRegion) SetText(text string) { r.p.summary = text }

type sectionRegion struct{ s *section }

func (r sectionRegion) SetRows(rows []string) { r.s.rows = rows }
func (r sectionRegion) Show()                 { r.s.visible = true }
func (r sectionRegion) Hide()                 { r.s.visible = false }

var totalsHeader = []string{"Phone", "Client", "Calls", "Cost (kop)", "Cost (rub)"}

var callsHeader = []string{
	"Start", "End", "From", "To", "Direction", "Disposition",
	"Duration", "Billable (s)", "Cost (kop)", "Cost (rub)", "Tariff",
}

// Render produces the full document for the current region states. Hidden
// sections are omitted entirely.
func (p *Page) Render() string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<title>Tariffing report</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("body{font-family:sans-serif;margin:2rem}\n")
	b.WriteString("table{border-collapse:collapse;margin:1rem 0}\n")
	b.WriteString("th,td{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}\n")
	b.WriteString("</style>\n</head>\n<body>\n")

	b.WriteString("<p class=\"summary\">")
	b.WriteString(escapeText(p.summary))
	b.WriteString("</p>\n")

	if p.totals.visible {
		writeTable(&b, "Totals per subscriber", totalsHeader, p.totals.rows)
	}
	if p.calls.visible {
		writeTable(&b, "Call detail", callsHeader, p.calls.rows)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeTable(b *strings.Builder, title string, header, rows []string) {
	b.WriteString("<h2>")
	b.WriteString(escapeText(title))
	b.WriteString("</h2>\n<table>\n<thead>\n<tr>")
	for _, h := range header {
		b.WriteString("<th>")
		b.WriteString(escapeText(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
