package parallel

// MinBandRows is the smallest band worth handing to another goroutine.
const MinBandRows = 16

// Bands splits the half-open row range [y0, y1) into contiguous bands and
// calls fn for each, in parallel when pool is non-nil. Bands never overlap,
// so fn may write its rows without synchronization. Bands returns after
// every call has finished.
func Bands(pool *WorkerPool, y0, y1 int, fn func(y0, y1 int)) {
	rows := y1 - y0
	if rows <= 0 {
		return
	}
	if pool == nil || rows < 2*MinBandRows {
		fn(y0, y1)
		return
	}

	n := min(pool.Workers()*2, rows/MinBandRows)
	size := (rows + n - 1) / n

	work := make([]func(), 0, n)
	for start := y0; start < y1; start += size {
		end := min(start+size, y1)
		work = append(work, func() { fn(start, end) })
	}
	pool.ExecuteAll(work)
}
