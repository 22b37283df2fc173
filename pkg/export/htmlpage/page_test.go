package htmlpage

import (
	"testing"

	"github.com/telco-tools/cdr-uplink/pkg/models/api"
	"github.com/telco-tools/cdr-uplink/pkg/services/report"

	"github.com/stretchr/testify/assert"
)

func TestPage_EmptyState(t *testing.T) {
	page := New()
	report.NewRenderer(page.View()).Render(nil)

	doc := page.Render()
	assert.Contains(t, doc, "no report yet")
	assert.NotContains(t, doc, "<table>", "hidden sections must be omitted")
}

func TestPage_FullReport(t *testing.T) {
	rep := &api.TariffReport{
		Status: "ok",
		Totals: []api.SubscriberTotal{{
			PhoneNumber:  "+79991112233",
			CallsCount:   3,
			TotalCostKop: 15050,
		}},
		Calls: []api.RatedCall{{
			StartTime:     "t0",
			EndTime:       "t1",
			CallingParty:  "100",
			CalledParty:   "200",
			CallDirection: "out",
			Disposition:   "ANSWERED",
			Duration:      30,
			BillableSec:   30,
			CostKop:       500,
			Tariff:        &api.TariffRef{Prefix: "7999", Destination: "Mobile", Priority: 1},
		}},
	}

	page := New()
	report.NewRenderer(page.View()).Render(rep)

	doc := page.Render()
	assert.Contains(t, doc, "status=ok, totals=1, calls=1")
	assert.Contains(t, doc, "<h2>Totals per subscriber</h2>")
	assert.Contains(t, doc, "<h2>Call detail</h2>")
	assert.Contains(t, doc, "<td>+79991112233</td>")
	assert.Contains(t, doc, "<td>150.50</td>")
	assert.Contains(t, doc, "<td>7999 → Mobile (p=1)</td>")
}

func TestPage_RerenderReplacesDocument(t *testing.T) {
	page := New()
	r := report.NewRenderer(page.View())

	r.Render(&api.TariffReport{Status: "ok", Calls: []api.RatedCall{{StartTime: "t0"}}})
	assert.Contains(t, page.Render(), "Call detail")

	r.Render(nil)
	doc := page.Render()
	assert.NotContains(t, doc, "Call detail")
	assert.Contains(t, doc, "no report yet")
}
