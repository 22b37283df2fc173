package api

import (
	"encoding/json"

	"github.com/telco-tools/cdr-uplink/pkg/models/domain"
)

// TariffReport is the wire shape of a tariffing run result as returned by
// POST /api/v1/cdr/tariff. Calls are present only when the server was asked
// to collect per-call detail.
type TariffReport struct {
	Status string            `json:"status"`
	Totals []SubscriberTotal `json:"totals"`
	Calls  []RatedCall       `json:"calls,omitempty"`
}

type SubscriberTotal struct {
	PhoneNumber  string `json:"phone_number"`
	ClientName   string `json:"client_name,omitempty"`
	CallsCount   int    `json:"calls_count"`
	TotalCostKop int64  `json:"total_cost_kop"`
}

type RatedCall struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	CallingParty  string `json:"calling_party"`
	CalledParty   string `json:"called_party"`
	CallDirection string `json:"call_direction"`
	Disposition   string `json:"disposition"`

	Duration    int `json:"duration"`
	BillableSec int `json:"billable_sec"`

	CostKop int64      `json:"cost_kop"`
	Tariff  *TariffRef `json:"tariff,omitempty"`
}

type TariffRef struct {
	Prefix      string `json:"prefix"`
	Destination string `json:"destination"`
	Priority    int    `json:"priority"`
}

// DecodeReport parses a response body leniently: an empty or unparsable body
// yields nil rather than an error, so a malformed success payload degrades to
// the empty-state rendering.
func DecodeReport(body []byte) *TariffReport {
	if len(body) == 0 {
		return nil
	}
	var r TariffReport
	if err := json.Unmarshal(body, &r); err != nil {
		return nil
	}
	return &r
}

func (r *TariffReport) ToDomain() *domain.Report {
	if r == nil {
		return nil
	}

	rep := &domain.Report{Status: r.Status}
	for _, t := range r.Totals {
		rep.Totals = append(rep.Totals, domain.SubscriberTotal{
			PhoneNumber: t.PhoneNumber,
			ClientName:  t.ClientName,
			CallsCount:  t.CallsCount,
			TotalCost:   domain.Kop(t.TotalCostKop),
		})
	}
	for _, c := range r.Calls {
		call := domain.RatedCall{
			StartTime:    c.StartTime,
			EndTime:      c.EndTime,
			CallingParty: c.CallingParty,
			CalledParty:  c.CalledParty,
			Direction:    c.CallDirection,
			Disposition:  c.Disposition,
			Duration:     c.Duration,
			BillableSec:  c.BillableSec,
			Cost:         domain.Kop(c.CostKop),
		}
		if c.Tariff != nil {
			call.Tariff = &domain.AppliedTariff{
				Prefix:      c.Tariff.Prefix,
				Destination: c.Tariff.Destination,
				Priority:    c.Tariff.Priority,
			}
		}
		rep.Calls = append(rep.Calls, call)
	}
	return rep
}
