package engine

// offset is one window sample relative to the window head.
type offset struct {
	t, v float64
}

// window holds the in-flight samples of the current segment as an amortized
// slice stack. Storage is kept across resets so steady-state reduction does
// not allocate.
type window struct {
	data []offset
}

func newWindow(capacity int) *window {
	if capacity < 1 {
		capacity = 1
	}
	return &window{data: make([]offset, 0, capacity)}
}

// PushBack appends an offset.
func (w *window) PushBack(t, v float64) {
	w.data = append(w.data, offset{t: t, v: v})
}

// PopBack removes and returns the newest offset. The window must not be empty.
func (w *window) PopBack() (t, v float64) {
	last := w.data[len(w.data)-1]
	w.data = w.data[:len(w.data)-1]
	return last.t, last.v
}

// Back returns the newest offset without removing it.
func (w *window) Back() (t, v float64) {
	last := w.data[len(w.data)-1]
	return last.t, last.v
}

// Len returns the number of buffered offsets.
func (w *window) Len() int {
	return len(w.data)
}

// Reset empties the window and keeps its storage.
func (w *window) Reset() {
	w.data = w.data[:0]
}

// Split copies the window into separate time and value slices, reusing the
// destination storage when large enough.
func (w *window) Split(ts, vs []float64) ([]float64, []float64) {
	n := len(w.data)
	if cap(ts) < n {
		ts = make([]float64, n, cap(w.data))
	}
	if cap(vs) < n {
		vs = make([]float64, n, cap(w.data))
	}
	ts, vs = ts[:n], vs[:n]
	for i, o := range w.data {
		ts[i] = o.t
		vs[i] = o.v
	}
	return ts, vs
}
