package domain

// Report is the result of a single tariffing run: aggregate per-subscriber
// totals plus optional itemized call detail.
type Report struct {
	Status string
	Totals []SubscriberTotal
	Calls  []RatedCall
}

const StatusOK = "ok"

func (r *Report) Succeeded() bool {
	return r != nil && r.Status == StatusOK
}

type SubscriberTotal struct {
	PhoneNumber string
	ClientName  string
	CallsCount  int
	TotalCost   Kop
}

type RatedCall struct {
	StartTime string
	EndTime   string

	CallingParty string
	CalledParty  string
	Direction    string
	Disposition  string

	Duration    int
	BillableSec int

	Cost   Kop
	Tariff *AppliedTariff
}

// AppliedTariff identifies the pricing rule that matched a call.
type AppliedTariff struct {
	Prefix      string
	Destination string
	Priority    int
}
