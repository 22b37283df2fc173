package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/telco-tools/cdr-uplink/pkg/models/api"
	"github.com/telco-tools/cdr-uplink/pkg/models/domain"
)

const emptyPlaceholder = "no report yet"

// Renderer projects a tariffing report onto its view. Rendering is
// deterministic and idempotent: the same input always produces the same
// region states, and each call fully replaces the previous contents.
type Renderer struct {
	view View
}

func NewRenderer(view View) *Renderer {
	return &Renderer{view: view}
}

// Render displays rep, or the empty state when rep is nil or did not succeed.
// Totals are always shown for a successful report, even with zero rows; the
// calls section is shown only when call detail is present.
func (r *Renderer) Render(rep *api.TariffReport) {
	if rep == nil || rep.Status != domain.StatusOK {
		r.view.Summary.SetText(emptyPlaceholder)
		r.view.Totals.Hide()
		r.view.Calls.Hide()
		return
	}

	totals := rep.Totals
	calls := rep.Calls

	r.view.Summary.SetText(fmt.Sprintf("status=%s, totals=%d, calls=%d",
		rep.Status, len(totals), len(calls)))

	totalRows := make([]string, 0, len(totals))
	for _, t := range totals {
		kop := domain.Kop(t.TotalCostKop)
		totalRows = append(totalRows, row(
			t.PhoneNumber,
			t.ClientName,
			strconv.Itoa(t.CallsCount),
			strconv.FormatInt(int64(kop), 10),
			kop.Rub(),
		))
	}
	r.view.Totals.SetRows(totalRows)
	r.view.Totals.Show()

	if len(calls) == 0 {
		r.view.Calls.SetRows(nil)
		r.view.Calls.Hide()
		return
	}

	callRows := make([]string, 0, len(calls))
	for _, c := range calls {
		kop := domain.Kop(c.CostKop)
		tariff := ""
		if c.Tariff != nil {
			tariff = fmt.Sprintf("%s → %s (p=%s)",
				escape(c.Tariff.Prefix),
				escape(c.Tariff.Destination),
				escape(strconv.Itoa(c.Tariff.Priority)))
		}
		callRows = append(callRows, rawRow(
			escape(c.StartTime),
			escape(c.EndTime),
			escape(c.CallingParty),
			escape(c.CalledParty),
			escape(c.CallDirection),
			escape(c.Disposition),
			escape(strconv.Itoa(c.Duration)),
			escape(strconv.Itoa(c.BillableSec)),
			escape(strconv.FormatInt(int64(kop), 10)),
			escape(kop.Rub()),
			tariff,
		))
	}
	r.view.Calls.SetRows(callRows)
	r.view.Calls.Show()
}

// row escapes every cell; rawRow trusts cells already escaped by the caller
// (the tariff cell carries markup of its own).
func row(cells ...string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escape(c)
	}
	return rawRow(escaped...)
}

func rawRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		b.WriteString(c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// escape neutralizes the five markup-significant characters in report data
// before it is interpolated into row markup.
func escape(s string) string {
	return htmlEscaper.Replace(s)
}
