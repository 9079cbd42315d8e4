//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

// CallRecorder collects calls from several doubles in the order they happen,
// so tests can assert on ordering across collaborators.
type CallRecorder struct {
	Calls []string
}

// Record appends a call description.
func (r *CallRecorder) Record(call string) {
	if r == nil {
		return
	}
	r.Calls = append(r.Calls, call)
}
