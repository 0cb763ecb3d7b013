package component

// Edge turns a polled boolean into rising and falling edge events. The host
// never notifies; every transition is synthesized from the previous sample.
type Edge struct {
	Last bool
}

// Observe records v and reports whether it just became true or false.
func (e *Edge) Observe(v bool) (rose, fell bool) {
	rose = v && !e.Last
	fell = !v && e.Last
	e.Last = v
	return rose, fell
}
