package fetch

// Result is the outcome of a single fetch: either Text or Err is meaningful.
type Result struct {
	Path string
	URL  string
	Text string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Reason is the failure description recorded in the run summary.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return "fetch failed: " + r.Err.Error()
}
