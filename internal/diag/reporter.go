package diag

// Reporter is the minimal contract phases use to hand off diagnostics.
// Implementations: BagReporter (append to a Bag), DedupReporter (filter),
// NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter appends every diagnostic to a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
