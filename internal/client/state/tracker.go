package state

// tracker orders the responses of one container. Every dispatch takes a
// sequence number; a response is applied only if no later dispatch has
// been applied already. Callers hold the container mutex.
type tracker struct {
	issued  uint64
	applied uint64
	pending int
}

func (t *tracker) begin() uint64 {
	t.issued++
	t.pending++
	return t.issued
}

// end settles dispatch seq and reports whether its result may be applied.
func (t *tracker) end(seq uint64) bool {
	t.pending--
	if seq <= t.applied {
		return false
	}
	t.applied = seq
	return true
}

// abandon settles dispatch seq without applying anything, so older
// dispatches still in flight may apply.
func (t *tracker) abandon() {
	t.pending--
}

// invalidate makes every in-flight dispatch stale.
func (t *tracker) invalidate() {
	t.applied = t.issued
}

func (t *tracker) loading() bool {
	return t.pending > 0
}
