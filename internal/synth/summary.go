package synth

// Summary is the end-of-run report for a synthesis pass.
type Summary struct {
	Completed []int
	Skipped   []int
	Failed    []int
}

// Partial reports whether some chapters failed while others completed or
// were skipped.
func (s Summary) Partial() bool {
	return len(s.Failed) > 0
}
