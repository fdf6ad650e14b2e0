package reactive

// Batch runs fn and defers notification of effects and watchers until
// the outermost batch returns. Dirty marking still happens inside each
// Set, so reads made inside the batch see fresh values; only the eager
// side effects wait.
//
// Batches can be nested. If fn panics the queued notifications stay
// pending and are delivered by the next write or batch.
//
// Example:
//
//	rt.Batch(func() {
//	    firstName.Set("Jane")
//	    lastName.Set("Smith")
//	})
//	// effects reading both names ran once
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	completed := false
	defer func() {
		rt.batchDepth--
		if completed {
			rt.settle()
		}
	}()
	fn()
	completed = true
}

// TryBatch is Batch returning cascaded failures instead of panicking.
func (rt *Runtime) TryBatch(fn func()) (err error) {
	defer recoverError(&err)
	rt.Batch(fn)
	return nil
}

// Flush delivers pending notifications now. It is a no-op while a batch,
// an evaluation or another flush is in progress.
func (rt *Runtime) Flush() {
	rt.settle()
}
