package upload

import (
	"fmt"
	"sort"

	"github.com/telco-tools/cdr-uplink/pkg/models/api"
)

// Snapshot captures the ambient option state a URL builder may depend on.
// It is taken exactly once per transfer, at send time, so the resolved URL
// reflects the options as they are when the upload actually starts.
type Snapshot struct {
	CollectCalls bool
}

// Target describes one upload destination. BuildURL is invoked at send time
// with a fresh Snapshot; OnSuccess, when set, receives the leniently parsed
// response body (nil when the body is empty or not valid JSON).
type Target struct {
	Name      string
	Field     string
	BuildURL  func(s Snapshot) string
	OnSuccess func(report *api.TariffReport)
}

const fieldFile = "file"

func Tariffs(base string) Target {
	return Target{
		Name:  "tariffs",
		Field: fieldFile,
		BuildURL: func(Snapshot) string {
			return base + "/api/v1/tariffs"
		},
	}
}

func Subscribers(base string) Target {
	return Target{
		Name:  "subscribers",
		Field: fieldFile,
		BuildURL: func(Snapshot) string {
			return base + "/api/v1/subscribers"
		},
	}
}

func CDR(base string, onReport func(report *api.TariffReport)) Target {
	return Target{
		Name:  "cdr",
		Field: fieldFile,
		BuildURL: func(s Snapshot) string {
			return fmt.Sprintf("%s/api/v1/cdr/tariff?collect_calls=%t", base, s.CollectCalls)
		},
		OnSuccess: onReport,
	}
}

// Registry maps target names to their configuration.
type Registry map[string]Target

// NewRegistry wires the three standard targets against a base URL. Only the
// cdr target consumes its response body; onReport may be nil for the others'
// sake but is normally the report renderer.
func NewRegistry(base string, onReport func(report *api.TariffReport)) Registry {
	targets := []Target{
		Tariffs(base),
		Subscribers(base),
		CDR(base, onReport),
	}

	r := make(Registry, len(targets))
	for _, t := range targets {
		r[t.Name] = t
	}
	return r
}

func (r Registry) Get(name string) (Target, error) {
	t, ok := r[name]
	if !ok {
		return Target{}, fmt.Errorf("unknown upload target %q, supported: %v", name, r.Names())
	}
	return t, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
