package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/telco-tools/cdr-uplink/pkg/models/domain"
)

type TableConfig struct {
	PhoneWidth  int
	ClientWidth int
	CountWidth  int
	CostWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PhoneWidth:  16,
		ClientWidth: 24,
		CountWidth:  6,
		CostWidth:   12,
	}
}

// Reporter prints a tariffing report to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	if !report.Succeeded() {
		_, err := fmt.Fprintln(c.writer, "no report yet")
		return err
	}

	funcMap := template.FuncMap{
		"totalRow": func(t domain.SubscriberTotal) string {
			return fmt.Sprintf("| %-*s | %-*s | %*d | %*d | %*s |",
				c.config.PhoneWidth, t.PhoneNumber,
				c.config.ClientWidth, t.ClientName,
				c.config.CountWidth, t.CallsCount,
				c.config.CostWidth, int64(t.TotalCost),
				c.config.CostWidth, t.TotalCost.Rub())
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.PhoneWidth+2),
				strings.Repeat("-", c.config.ClientWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CostWidth+2),
				strings.Repeat("-", c.config.CostWidth+2))
		},
		"header": func() string {
			return fmt.Sprintf("| %-*s | %-*s | %*s | %*s | %*s |",
				c.config.PhoneWidth, "Phone",
				c.config.ClientWidth, "Client",
				c.config.CountWidth, "Calls",
				c.config.CostWidth, "Cost (kop)",
				c.config.CostWidth, "Cost (rub)")
		},
		"tariff": func(call domain.RatedCall) string {
			if call.Tariff == nil {
				return ""
			}
			return fmt.Sprintf("%s -> %s (p=%d)",
				call.Tariff.Prefix, call.Tariff.Destination, call.Tariff.Priority)
		},
	}

	tmpl := `
Tariffing report: status={{.Status}}, totals={{len .Totals}}, calls={{len .Calls}}

{{separator}}
{{header}}
{{separator}}
{{range .Totals}}{{totalRow .}}
{{end}}{{separator}}
{{if .Calls}}
Call detail:
{{range .Calls}}- {{.StartTime}} .. {{.EndTime}} {{.CallingParty}} -> {{.CalledParty}} [{{.Direction}}/{{.Disposition}}] dur={{.Duration}}s billable={{.BillableSec}}s cost={{.Cost.Rub}} {{tariff .}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
