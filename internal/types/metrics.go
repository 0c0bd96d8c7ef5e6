package types

// Status describes how an optional lookup ended.
type Status string

const (
	// StatusOK means the lookup returned data
	StatusOK Status = "ok"
	// StatusAbsent means the lookup was not attempted, e.g. no id was configured
	StatusAbsent Status = "absent"
	// StatusFailed means the service could not be reached or its response could not be read
	StatusFailed Status = "failed"
)

// Outcome is the result of an optional lookup. Callers render Value only when
// Status is StatusOK, which keeps "service down" apart from "no metrics".
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
	Reason string
}

// OK wraps a successful value.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusOK, Value: v}
}

// Absent records a lookup that was skipped.
func Absent[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusAbsent, Reason: reason}
}

// Failed records a lookup that failed.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusFailed, Err: err}
}

// Available reports whether Value can be rendered.
func (o Outcome[T]) Available() bool {
	return o.Status == StatusOK
}

// ScholarMetrics holds the citation totals from a Google Scholar profile.
type ScholarMetrics struct {
	Citations int `json:"citations"`
	HIndex    int `json:"h_index"`
}

// Badge is a named alt-metric indicator.
type Badge struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Context     string `json:"context,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// ImpactProfile is the set of badges earned by an author.
type ImpactProfile struct {
	Badges []Badge `json:"badges"`
}

// Filter returns the badges whose name is in allow, preserving order.
func (p ImpactProfile) Filter(allow []string) []Badge {
	if len(allow) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}
	var out []Badge
	for _, b := range p.Badges {
		if allowed[b.Name] {
			out = append(out, b)
		}
	}
	return out
}
